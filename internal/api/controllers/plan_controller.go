package controllers

import (
	"github.com/gin-gonic/gin"

	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{planService: planService}
}

// ListPlans godoc
// @Summary Posting plans
// @Description Active plans ordered by rank, with price in KES and visibility days.
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/plans [get]
func (pc *PlanController) ListPlans(c *gin.Context) {
	plans, err := pc.planService.GetAll(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}
