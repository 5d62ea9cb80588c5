package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"autumhire/internal/models/response_models"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Platform dashboard
// @Description KPI block, revenue, signup and posting series, plan mix, top industries and recent payments
// @Tags Admin
// @Produce json
// @Param start     query string false "RFC3339 start (e.g. 2025-10-01T00:00:00Z)"
// @Param end       query string false "RFC3339 end"
// @Param last_days query int    false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Param interval  query string false "Bucket size: day | week | month (default: day)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/admin/dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	lastDaysStr := c.Query("last_days")

	if lastDaysStr != "" && (startStr != "" || endStr != "") {
		utils.RespondError(c, http.StatusBadRequest, "provide either last_days or start/end (not both)")
		return
	}

	tr := response_models.TimeRange{Interval: c.DefaultQuery("interval", "day")}
	switch {
	case lastDaysStr != "":
		d, err := strconv.Atoi(lastDaysStr)
		if err != nil || d <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "last_days must be a positive integer")
			return
		}
		tr.End = time.Now().UTC()
		tr.Start = tr.End.AddDate(0, 0, -d)
	default:
		var err error
		if startStr != "" {
			if tr.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
				utils.RespondError(c, http.StatusBadRequest, "start must be RFC3339 (e.g. 2025-10-01T00:00:00Z)")
				return
			}
		}
		if endStr != "" {
			if tr.End, err = time.Parse(time.RFC3339, endStr); err != nil {
				utils.RespondError(c, http.StatusBadRequest, "end must be RFC3339 (e.g. 2025-10-19T23:59:59Z)")
				return
			}
		}
	}

	report, err := p.dashboardService.BuildDashboard(c.Request.Context(), tr)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}
