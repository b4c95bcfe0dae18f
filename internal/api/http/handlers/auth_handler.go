package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kruxfinance/support-chat/internal/api/dto"
	"github.com/kruxfinance/support-chat/internal/auth"
	"github.com/kruxfinance/support-chat/internal/service"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

// AuthHandler manages login and logout.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, token, exp, err := h.service.Login(c.UserContext(), req.Identifier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User: dto.NewUserResponse(user),
		Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Logout(c.UserContext(), principal.User); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}
