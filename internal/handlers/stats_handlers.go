package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

type StatsHandlers struct {
	ledgerService services.LedgerService
	customerRepo  repositories.CustomerRepository
}

func NewStatsHandlers(ledgerService services.LedgerService, customerRepo repositories.CustomerRepository) *StatsHandlers {
	return &StatsHandlers{ledgerService: ledgerService, customerRepo: customerRepo}
}

// Get handles GET /api/stats
func (h *StatsHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	revenue, err := h.ledgerService.TodayRevenue(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute stats")
	}
	expenses, err := h.ledgerService.TodayExpenses(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute stats")
	}
	outstanding, err := h.ledgerService.TotalOutstanding(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute stats")
	}
	pending, err := h.customerRepo.ListWithPending(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute stats")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"today_revenue":     revenue,
		"today_expenses":    expenses,
		"total_outstanding": outstanding,
		"pending_customers": pending,
	})
}
