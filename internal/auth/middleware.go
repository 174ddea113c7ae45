package auth

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "auth_identity"

// Identity is the verified caller behind a request's bearer token.
type Identity struct {
	SubjectID string
	Roles     []string
}

// HasRole reports whether the identity carries role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// Gate turns bearer tokens into identities and enforces role policies.
type Gate struct {
	tokens *TokenCodec
}

// NewGate constructs a gate around the token codec.
func NewGate(tokens *TokenCodec) *Gate {
	return &Gate{tokens: tokens}
}

// Identify validates a raw bearer token. Every failure matches ErrUnauthorized;
// an expired token additionally matches ErrTokenExpired.
func (g *Gate) Identify(bearer string) (*Identity, error) {
	if bearer == "" {
		return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	claims, err := g.tokens.Decode(bearer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return &Identity{SubjectID: claims.Subject, Roles: claims.Roles}, nil
}

// Authenticated rejects requests without a valid bearer token and stores the
// identity for downstream handlers.
func (g *Gate) Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := g.resolve(c); err != nil {
			return err
		}
		return c.Next()
	}
}

// resolve returns the identity already stored on the request or identifies
// the caller from the Authorization header.
func (g *Gate) resolve(c *fiber.Ctx) (*Identity, error) {
	if identity, ok := IdentityFromContext(c); ok {
		return identity, nil
	}
	bearer, err := BearerToken(c)
	if err != nil {
		return nil, err
	}
	identity, err := g.Identify(bearer)
	if err != nil {
		return nil, err
	}
	c.Locals(identityKey, identity)
	return identity, nil
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthorized)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: invalid authorization header", ErrUnauthorized)
	}
	return strings.TrimSpace(parts[1]), nil
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
