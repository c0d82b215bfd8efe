package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	startedAt time.Time
}

func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{startedAt: time.Now()}
}

// Check handles GET /health
func (h *HealthHandlers) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}
