package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	var req struct {
		Phone        string `json:"phone"`
		Password     string `json:"password"`
		Name         string `json:"name"`
		BusinessName string `json:"business_name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidatePhone(req.Phone, "phone"); err != nil {
		return common.SendValidationError(c, "phone", err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Phone, req.Password, req.Name, req.BusinessName)
	if err != nil {
		if errors.Is(err, repositories.ErrValidation) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Registration failed")
	}

	return c.JSON(http.StatusCreated, map[string]any{"user": user})
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c, "Login failed")
	}

	return c.JSON(http.StatusOK, map[string]any{"token": token, "user": user})
}
