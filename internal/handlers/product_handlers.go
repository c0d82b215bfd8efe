package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
)

type ProductHandlers struct {
	productRepo repositories.ProductRepository
}

func NewProductHandlers(productRepo repositories.ProductRepository) *ProductHandlers {
	return &ProductHandlers{productRepo: productRepo}
}

// Create handles POST /api/products
func (h *ProductHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name     string   `json:"name"`
		Price    float64  `json:"price"`
		Stock    float64  `json:"stock"`
		Category string   `json:"category"`
		MinStock *float64 `json:"min_stock"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", 10000000); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}

	product := models.NewProduct(userID, req.Name, req.Category, req.Price, req.Stock, req.MinStock)
	if err := h.productRepo.Create(ctx, product); err != nil {
		return common.SendServerError(c, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "Product added successfully", "product": product})
}

// List handles GET /api/products
func (h *ProductHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	products, err := h.productRepo.List(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}

	lowStock := make([]*models.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			lowStock = append(lowStock, p)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products, "low_stock": lowStock})
}

// SetStock handles PATCH /api/products/:id/stock
func (h *ProductHandlers) SetStock(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Stock float64 `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Stock < 0 {
		return common.SendValidationError(c, "stock", "stock cannot be negative")
	}

	if err := h.productRepo.SetStock(ctx, userID, c.Param("id"), req.Stock); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "product")
		}
		return common.SendServerError(c, "Failed to update stock")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Stock updated"})
}
