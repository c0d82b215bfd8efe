package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/services"
)

type ReceiptHandlers struct {
	receiptService services.ReceiptService
}

func NewReceiptHandlers(receiptService services.ReceiptService) *ReceiptHandlers {
	return &ReceiptHandlers{receiptService: receiptService}
}

// Upload handles POST /api/receipts. The image lands in object storage and
// the response carries a presigned URL usable with Analyze.
func (h *ReceiptHandlers) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return common.SendClientError(c, "receipt file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	url, err := h.receiptService.Store(ctx, userID, contentType, src, file.Size)
	if err != nil {
		return common.SendServerError(c, "Failed to store receipt")
	}
	return c.JSON(http.StatusCreated, map[string]any{"url": url})
}

// Analyze handles POST /api/ocr/analyze
func (h *ReceiptHandlers) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Image == "" {
		return common.SendValidationError(c, "image", "image is required")
	}

	data, err := h.receiptService.Analyze(ctx, req.Image)
	if err != nil {
		return common.SendServerError(c, "Failed to analyze receipt")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}
