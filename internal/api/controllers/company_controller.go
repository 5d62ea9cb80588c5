package controllers

import (
	"github.com/gin-gonic/gin"

	"autumhire/internal/models/request_models"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type CompanyController struct {
	companyService services.CompanyServiceInterface
	jobService     services.JobServiceInterface
}

func NewCompanyController(companyService services.CompanyServiceInterface, jobService services.JobServiceInterface) *CompanyController {
	return &CompanyController{companyService: companyService, jobService: jobService}
}

// Invite godoc
// @Summary Invite a teammate
// @Description Invite an email address to join the caller's company. A pending invite for the same email is replaced.
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body request_models.InviteRequest true "Invitation"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/companies/invitations [post]
func (cc *CompanyController) Invite(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req request_models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	invite, err := cc.companyService.Invite(c.Request.Context(), userID, req.Email)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, invite, "Invitation sent")
}

// ListInvitations godoc
// @Summary List pending invitations
// @Tags Companies
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/companies/invitations [get]
func (cc *CompanyController) ListInvitations(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	invites, err := cc.companyService.ListInvitations(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, invites, "Invitations fetched successfully")
}

// UpdateProfile godoc
// @Summary Update company profile
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body request_models.UpdateCompanyRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/companies/me [patch]
func (cc *CompanyController) UpdateProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req request_models.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	company, err := cc.companyService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, company, "Company updated")
}

// ListMyJobs godoc
// @Summary Jobs of the caller's company
// @Description All statuses, newest first.
// @Tags Companies
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/companies/me/jobs [get]
func (cc *CompanyController) ListMyJobs(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	jobs, err := cc.jobService.ListMine(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, jobs, "Jobs fetched successfully")
}
