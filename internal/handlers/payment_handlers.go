package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

type PaymentHandlers struct {
	reminderService services.ReminderService
}

func NewPaymentHandlers(reminderService services.ReminderService) *PaymentHandlers {
	return &PaymentHandlers{reminderService: reminderService}
}

// Remind handles POST /api/payments/:invoiceID/remind
func (h *PaymentHandlers) Remind(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.reminderService.RemindInvoice(ctx, userID, c.Param("invoiceID")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to send reminder")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Reminder sent"})
}
