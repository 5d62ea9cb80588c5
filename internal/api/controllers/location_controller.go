package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type LocationController struct {
	geocoder services.GeocodeServiceInterface
}

func NewLocationController(geocoder services.GeocodeServiceInterface) *LocationController {
	return &LocationController{geocoder: geocoder}
}

// SearchLocations godoc
// @Summary City autocomplete
// @Description Kenyan places matching q. Shorter than two characters returns an empty list.
// @Tags Locations
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/locations/search [get]
func (lc *LocationController) SearchLocations(c *gin.Context) {
	locs, err := lc.geocoder.SearchCities(c.Request.Context(), c.Query("q"))
	if err != nil {
		zap.L().Warn("location search failed", zap.String("q", c.Query("q")), zap.Error(err))
		utils.RespondError(c, http.StatusBadGateway, "Location search unavailable")
		return
	}
	utils.RespondSuccess(c, locs, "Locations fetched successfully")
}
