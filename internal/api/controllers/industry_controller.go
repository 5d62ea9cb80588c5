package controllers

import (
	"github.com/gin-gonic/gin"

	"autumhire/internal/models/request_models"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type IndustryController struct {
	industryService services.IndustryServiceInterface
}

func NewIndustryController(industryService services.IndustryServiceInterface) *IndustryController {
	return &IndustryController{industryService: industryService}
}

// ListIndustries godoc
// @Summary List industries
// @Tags Industries
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/industries [get]
func (ic *IndustryController) ListIndustries(c *gin.Context) {
	industries, err := ic.industryService.List(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, industries, "Industries fetched successfully")
}

// CreateIndustry godoc
// @Summary Add an industry
// @Description Returns the existing industry when the name is already known, ignoring case.
// @Tags Industries
// @Accept json
// @Produce json
// @Param request body request_models.CreateIndustryRequest true "Industry"
// @Success 201 {object} utils.APIResponse
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/industries [post]
func (ic *IndustryController) CreateIndustry(c *gin.Context) {
	var req request_models.CreateIndustryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	industry, created, err := ic.industryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if !created {
		utils.RespondSuccess(c, industry, "Industry already exists")
		return
	}
	utils.RespondCreated(c, industry, "Industry created")
}
