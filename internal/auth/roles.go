package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole returns the identity when it carries role and a *ForbiddenError otherwise.
// Roles are flat: "admin" does not grant "user".
func RequireRole(identity *Identity, role string) (*Identity, error) {
	if identity == nil {
		return nil, ErrUnauthorized
	}
	if !identity.HasRole(role) {
		return nil, &ForbiddenError{Role: role}
	}
	return identity, nil
}

// RequireRoles authenticates the caller and then checks every listed role.
// No roles means any authenticated caller is accepted.
func (g *Gate) RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := g.resolve(c)
		if err != nil {
			return err
		}
		for _, role := range roles {
			if _, err := RequireRole(identity, role); err != nil {
				return err
			}
		}
		return c.Next()
	}
}
