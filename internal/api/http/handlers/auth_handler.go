package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/api/dto"
	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/service"
)

// AuthHandler issues, refreshes and introspects access tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /auth/token with the OAuth2 password grant.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.auth.Login(requestContext(c), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTokenResponse(pair))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.auth.Refresh(requestContext(c), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTokenResponse(pair))
}

// Introspect handles GET /auth/token, reporting the verified claims of the
// bearer token and whether its subject still exists.
func (h *AuthHandler) Introspect(c *fiber.Ctx) error {
	bearer, err := auth.BearerToken(c)
	if err != nil {
		return err
	}
	introspection, err := h.auth.Introspect(requestContext(c), bearer)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIntrospectionResponse(introspection))
}
