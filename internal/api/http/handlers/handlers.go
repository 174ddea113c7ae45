package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/api/dto"
	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/events"
	apperrors "github.com/spec-kit/cryptid/pkg/util"
)

// bind parses the request body into req and validates it.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return dto.Validate(req)
}

// requestContext returns the request context, attributed to the caller when authenticated.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if identity, ok := auth.IdentityFromContext(c); ok {
		ctx = events.WithActor(ctx, identity.SubjectID)
	}
	return ctx
}

func data(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

// currentSubject returns the id of the authenticated caller.
func currentSubject(c *fiber.Ctx) (string, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return "", auth.ErrUnauthorized
	}
	return identity.SubjectID, nil
}
