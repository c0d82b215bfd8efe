package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

// InvoiceHandlers handles HTTP requests for invoices.
type InvoiceHandlers struct {
	ledgerService services.LedgerService
	invoiceRepo   repositories.InvoiceRepository
}

func NewInvoiceHandlers(ledgerService services.LedgerService, invoiceRepo repositories.InvoiceRepository) *InvoiceHandlers {
	return &InvoiceHandlers{ledgerService: ledgerService, invoiceRepo: invoiceRepo}
}

// Create handles POST /api/invoices
func (h *InvoiceHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateInvoiceInput
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, notice, err := h.ledgerService.CreateInvoice(ctx, userID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrValidation) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to create invoice")
	}

	resp := map[string]any{"invoice": invoice}
	if notice != "" {
		resp["notice"] = notice
	}
	return c.JSON(http.StatusCreated, resp)
}

// List handles GET /api/invoices
func (h *InvoiceHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	invoices, err := h.invoiceRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}
	return c.JSON(http.StatusOK, map[string]any{"invoices": invoices})
}

// Get handles GET /api/invoices/:id
func (h *InvoiceHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoice, err := h.invoiceRepo.GetByID(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to get invoice")
	}
	return c.JSON(http.StatusOK, map[string]any{"invoice": invoice})
}

// UpdateStatus handles PATCH /api/invoices/:id/status
func (h *InvoiceHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	err := h.ledgerService.UpdateInvoiceStatus(ctx, userID, c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		if errors.Is(err, repositories.ErrValidation) {
			return common.SendValidationError(c, "status", err.Error())
		}
		return common.SendServerError(c, "Failed to update invoice status")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Invoice status updated"})
}

// Delete handles DELETE /api/invoices/:id
func (h *InvoiceHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.ledgerService.DeleteInvoice(ctx, userID, c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to delete invoice")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Invoice deleted"})
}
