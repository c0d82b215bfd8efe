package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

type ExpenseHandlers struct {
	ledgerService services.LedgerService
	expenseRepo   repositories.ExpenseRepository
}

func NewExpenseHandlers(ledgerService services.LedgerService, expenseRepo repositories.ExpenseRepository) *ExpenseHandlers {
	return &ExpenseHandlers{ledgerService: ledgerService, expenseRepo: expenseRepo}
}

// Create handles POST /api/expenses
func (h *ExpenseHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Item     string  `json:"item"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Item, "item"); err != nil {
		return common.SendValidationError(c, "item", err.Error())
	}
	if err := common.ValidatePositiveFloat(req.Amount, "amount", 10000000); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}

	expense, err := h.ledgerService.AddExpense(ctx, userID, req.Item, req.Amount, req.Category)
	if err != nil {
		return common.SendServerError(c, "Failed to record expense")
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "Expense recorded", "expense": expense})
}

// List handles GET /api/expenses
func (h *ExpenseHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	limit, _ = common.ValidatePaginationParams(limit, 0)

	expenses, err := h.expenseRepo.List(ctx, userID, limit)
	if err != nil {
		return common.SendServerError(c, "Failed to list expenses")
	}
	return c.JSON(http.StatusOK, map[string]any{"expenses": expenses})
}

// Today handles GET /api/expenses/today
func (h *ExpenseHandlers) Today(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	total, err := h.ledgerService.TodayExpenses(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute expenses")
	}
	return c.JSON(http.StatusOK, map[string]any{"total_expenses": total})
}
