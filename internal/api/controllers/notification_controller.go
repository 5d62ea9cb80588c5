package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autumhire/internal/models/request_models"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationController(notificationService services.NotificationServiceInterface) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// SendJobAlert godoc
// @Summary Email subscribers about a job
// @Description Pass jobId for a stored job on a notifying plan, or an inline job with at least title and industry.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body request_models.JobAlertRequest true "Job alert"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /send-job-alert [post]
func (nc *NotificationController) SendJobAlert(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req request_models.JobAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := nc.notificationService.SendJobAlert(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Job alerts sent")
}

// NotifyJobPosted godoc
// @Summary Confirm a job posting by email
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body request_models.NotifyJobPostedRequest true "Job"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /notify-job-posted [post]
func (nc *NotificationController) NotifyJobPosted(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req request_models.NotifyJobPostedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := nc.notificationService.NotifyJobPosted(c.Request.Context(), userID, uuid.MustParse(req.JobID)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Confirmation sent")
}

// SendContactMessage godoc
// @Summary Contact support
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body request_models.ContactMessageRequest true "Message"
// @Success 200 {object} utils.APIResponse
// @Router /send-contact-message [post]
func (nc *NotificationController) SendContactMessage(c *gin.Context) {
	var req request_models.ContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := nc.notificationService.SendContactMessage(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Message sent")
}
