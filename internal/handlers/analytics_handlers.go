package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/services"
)

type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandlers(analyticsService *services.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// Get handles GET /api/analytics
func (h *AnalyticsHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	data, err := h.analyticsService.Calculate(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute analytics")
	}
	return c.JSON(http.StatusOK, data)
}
