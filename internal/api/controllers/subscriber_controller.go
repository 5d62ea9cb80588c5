package controllers

import (
	"github.com/gin-gonic/gin"

	"autumhire/internal/models/request_models"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type SubscriberController struct {
	subscriberService services.SubscriberServiceInterface
}

func NewSubscriberController(subscriberService services.SubscriberServiceInterface) *SubscriberController {
	return &SubscriberController{subscriberService: subscriberService}
}

// Subscribe godoc
// @Summary Subscribe to job alerts
// @Description Re-subscribing with the same email replaces the industries and location.
// @Tags Subscribers
// @Accept json
// @Produce json
// @Param request body request_models.SubscribeRequest true "Subscription"
// @Success 200 {object} utils.APIResponse
// @Router /api/subscribers [post]
func (sc *SubscriberController) Subscribe(c *gin.Context) {
	var req request_models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sub, err := sc.subscriberService.Subscribe(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscribed")
}

// Unsubscribe godoc
// @Summary Stop job alerts
// @Tags Subscribers
// @Produce json
// @Param email path string true "Subscriber email"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/subscribers/{email} [delete]
func (sc *SubscriberController) Unsubscribe(c *gin.Context) {
	if err := sc.subscriberService.Unsubscribe(c.Request.Context(), c.Param("email")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Unsubscribed")
}
