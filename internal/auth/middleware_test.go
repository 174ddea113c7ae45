package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	clock := newTestClock()
	codec := NewTokenCodec("k1", clock.Now)
	gate := NewGate(codec)

	issued, err := codec.Encode(NewClaims("7", []string{"user"}), durationPtr(time.Minute))
	require.NoError(t, err)

	identity, err := gate.Identify(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, &Identity{SubjectID: "7", Roles: []string{"user"}}, identity)

	_, err = gate.Identify("")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = gate.Identify("garbage")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	clock.Advance(2 * time.Minute)
	_, err = gate.Identify(issued.AccessToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestRequireRoleIsFlat(t *testing.T) {
	user := &Identity{SubjectID: "1", Roles: []string{"user"}}
	admin := &Identity{SubjectID: "2", Roles: []string{"admin"}}

	_, err := RequireRole(user, "admin")
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "role 'admin' required", err.Error())

	_, err = RequireRole(admin, "user")
	assert.True(t, errors.Is(err, ErrForbidden), "admin must not imply user")

	got, err := RequireRole(admin, "admin")
	require.NoError(t, err)
	assert.Same(t, admin, got)

	_, err = RequireRole(nil, "user")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func gatedApp(gate *Gate, handlerRan *bool, roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, ErrUnauthorized):
				return c.SendStatus(http.StatusUnauthorized)
			case errors.Is(err, ErrForbidden):
				return c.SendStatus(http.StatusForbidden)
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Get("/", gate.RequireRoles(roles...), func(c *fiber.Ctx) error {
		*handlerRan = true
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(identity.SubjectID)
	})
	return app
}

func TestRequireRolesMiddleware(t *testing.T) {
	clock := newTestClock()
	codec := NewTokenCodec("k1", clock.Now)
	gate := NewGate(codec)

	userTok, err := codec.Encode(NewClaims("1", []string{"user"}), nil)
	require.NoError(t, err)
	bothTok, err := codec.Encode(NewClaims("2", []string{"user", "admin"}), nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		roles  []string
		header string
		status int
		ran    bool
	}{
		{"no header", []string{"user"}, "", http.StatusUnauthorized, false},
		{"wrong scheme", []string{"user"}, "Basic " + userTok.AccessToken, http.StatusUnauthorized, false},
		{"bad token", []string{"user"}, "Bearer nope", http.StatusUnauthorized, false},
		{"user ok", []string{"user"}, "Bearer " + userTok.AccessToken, http.StatusOK, true},
		{"user lacks admin", []string{"admin"}, "Bearer " + userTok.AccessToken, http.StatusForbidden, false},
		{"both roles required", []string{"user", "admin"}, "bearer " + bothTok.AccessToken, http.StatusOK, true},
		{"any authenticated", nil, "Bearer " + userTok.AccessToken, http.StatusOK, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			app := gatedApp(gate, &ran, tc.roles...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.ran, ran)
		})
	}
}
