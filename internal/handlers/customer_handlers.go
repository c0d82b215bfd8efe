package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

// CustomerHandlers handles HTTP requests for customers and their balances.
type CustomerHandlers struct {
	customerRepo  repositories.CustomerRepository
	ledgerService services.LedgerService
}

func NewCustomerHandlers(customerRepo repositories.CustomerRepository, ledgerService services.LedgerService) *CustomerHandlers {
	return &CustomerHandlers{customerRepo: customerRepo, ledgerService: ledgerService}
}

// Create handles POST /api/customers
func (h *CustomerHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidatePhone(req.Phone, "phone"); err != nil {
		return common.SendValidationError(c, "phone", err.Error())
	}

	customer, err := models.NewCustomer(userID, req.Name, req.Phone)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, repositories.ErrValidation) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to create customer")
	}

	return c.JSON(http.StatusCreated, map[string]any{"message": "Customer added successfully", "customer": customer})
}

// List handles GET /api/customers
func (h *CustomerHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customers, err := h.customerRepo.List(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to list customers")
	}
	return c.JSON(http.StatusOK, map[string]any{"customers": customers})
}

// Balance handles GET /api/customers/:name/balance
func (h *CustomerHandlers) Balance(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customer, err := h.ledgerService.CustomerBalance(ctx, userID, c.Param("name"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "customer")
		}
		return common.SendServerError(c, "Failed to get customer balance")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"customer":       customer.Name,
		"pending_amount": customer.PendingAmount,
		"total_invoices": customer.TotalInvoices,
	})
}
