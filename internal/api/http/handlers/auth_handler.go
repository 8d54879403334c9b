package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/api/dto"
	"github.com/service-bay/ticket-service/internal/service"
)

// AuthHandler issues and rotates token pairs.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /api/token/.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh handles POST /api/token/refresh/.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	pair, err := h.auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}
