package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/cryptid/internal/api/http/handlers"
	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/observability"
	"github.com/spec-kit/cryptid/internal/repository/fake"
	"github.com/spec-kit/cryptid/internal/service"
)

type testServer struct {
	handler       http.Handler
	users         *service.UserService
	authenticator *auth.Authenticator
}

type fixedPinger struct{ err error }

func (p fixedPinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T, refreshTTL time.Duration) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	audit := service.NewAuditService(dispatcher, fake.NewAuditRepository(), logger)
	audit.RegisterHandlers()

	userRepo := fake.NewUserRepository()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec("test-secret", nil)
	authenticator := auth.NewAuthenticator(userRepo, hasher, codec, 15*time.Minute)

	users := service.NewUserService(userRepo, hasher, dispatcher)
	authService := service.NewAuthService(service.AuthDependencies{
		Authenticator: authenticator,
		UserRepo:      userRepo,
		RefreshRepo:   fake.NewRefreshTokenRepository(),
		RefreshTTL:    refreshTTL,
		Dispatcher:    dispatcher,
	})

	app := NewApp(AppConfig{
		Name:           "cryptid-test",
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: 5 * time.Second,
	}, RouteConfig{
		Health: handlers.NewHealthHandler("cryptid", "test", map[string]handlers.Pinger{
			"postgres": fixedPinger{},
		}, metrics),
		Auth:  handlers.NewAuthHandler(authService),
		Users: handlers.NewUsersHandler(users),
		Creatures: handlers.NewCreaturesHandler(service.NewCreatureService(fake.NewCreatureRepository(
			domain.Creature{Name: "yeti", Country: "CN", Area: "Himalayas", AKA: "Abominable Snowman"},
		), dispatcher)),
		Explorers:      handlers.NewExplorersHandler(service.NewExplorerService(fake.NewExplorerRepository(), dispatcher)),
		Audit:          handlers.NewAuditHandler(audit),
		Gate:           auth.NewGate(codec),
		RefreshEnabled: authService.RefreshEnabled(),
	})

	return &testServer{
		handler:       fiberHandler(app),
		users:         users,
		authenticator: authenticator,
	}
}

// fiberHandler exposes app as a net/http handler. The adaptor routes on
// RequestURI, which client-built requests leave empty.
func fiberHandler(app *fiber.App) http.Handler {
	h := adaptor.FiberApp(app)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.RequestURI == "" {
			r.RequestURI = r.URL.RequestURI()
		}
		h.ServeHTTP(w, r)
	})
}

// signUp creates a user directly and returns its id and a bearer header value.
func (s *testServer) signUp(t *testing.T, name string, roles ...string) (string, string) {
	t.Helper()
	user, err := s.users.Create(context.Background(), service.SignUpInput{Name: name, Password: "pw-" + name, Roles: roles})
	require.NoError(t, err)
	token, err := s.authenticator.Issue(user.ID, user.Roles)
	require.NoError(t, err)
	return user.ID, "Bearer " + token.AccessToken
}

func (s *testServer) api() *apitest.APITest {
	return apitest.New().Handler(s.handler)
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t, 0)

	s.api().Get("/health").
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.status", "ok")).
		End()

	s.api().Get("/health/ready").
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.dependencies.postgres", "ok")).
		End()

	s.api().Get("/health/metrics").
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Present("$.requests")).
		End()
}

func TestReadyReportsFailingDependency(t *testing.T) {
	metrics := observability.NewMetrics()
	h := handlers.NewHealthHandler("cryptid", "test", map[string]handlers.Pinger{
		"redis": fixedPinger{err: errors.New("connection refused")},
	}, metrics)
	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	apitest.New().Handler(fiberHandler(app)).
		Get("/health/ready").
		Expect(t).
		Status(fiber.StatusServiceUnavailable).
		Assert(jsonpath.Equal("$.error.details.redis", "connection refused")).
		End()
}

func TestCreatureRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t, 0)
	_, userBearer := s.signUp(t, "renfield", domain.RoleUser)
	_, adminBearer := s.signUp(t, "van helsing", domain.RoleAdmin)

	s.api().Get("/creatures").
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Len("$.data", 1)).
		Assert(jsonpath.Equal("$.data[0].aka", "Abominable Snowman")).
		End()

	body := `{"name":"nessie","country":"UK","area":"Loch Ness"}`

	s.api().Post("/creatures").
		JSON(body).
		Expect(t).
		Status(fiber.StatusUnauthorized).
		Header(fiber.HeaderWWWAuthenticate, "Bearer").
		Assert(jsonpath.Equal("$.error.code", "UNAUTHORIZED")).
		End()

	s.api().Post("/creatures").
		Header(fiber.HeaderAuthorization, userBearer).
		JSON(body).
		Expect(t).
		Status(fiber.StatusForbidden).
		Assert(jsonpath.Equal("$.error.message", "role 'admin' required")).
		End()

	s.api().Post("/creatures").
		Header(fiber.HeaderAuthorization, adminBearer).
		JSON(body).
		Expect(t).
		Status(fiber.StatusCreated).
		Assert(jsonpath.Equal("$.data.name", "nessie")).
		Assert(jsonpath.Equal("$.data.description", "")).
		End()

	s.api().Post("/creatures").
		Header(fiber.HeaderAuthorization, adminBearer).
		JSON(body).
		Expect(t).
		Status(fiber.StatusConflict).
		Assert(jsonpath.Equal("$.error.message", "creature 'nessie' already exists")).
		End()

	s.api().Patch("/creatures/nessie").
		Header(fiber.HeaderAuthorization, adminBearer).
		JSON(`{"description":"long neck"}`).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.data.description", "long neck")).
		Assert(jsonpath.Equal("$.data.area", "Loch Ness")).
		End()

	s.api().Put("/creatures/nessie").
		Header(fiber.HeaderAuthorization, adminBearer).
		JSON(`{"name":"nessie"}`).
		Expect(t).
		Status(fiber.StatusBadRequest).
		Assert(jsonpath.Equal("$.error.code", "VALIDATION_FAILED")).
		Assert(jsonpath.Present("$.error.details.country")).
		End()

	s.api().Delete("/creatures/nessie").
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusNoContent).
		End()

	s.api().Get("/creatures/nessie").
		Expect(t).
		Status(fiber.StatusNotFound).
		Assert(jsonpath.Equal("$.error.message", "creature 'nessie' not found")).
		End()
}

func TestExplorerRoutesTrimNames(t *testing.T) {
	s := newTestServer(t, 0)

	s.api().Post("/explorer").
		JSON(`{"name":"  Beau Buffette ","country":"US"}`).
		Expect(t).
		Status(fiber.StatusCreated).
		Assert(jsonpath.Equal("$.data.name", "Beau Buffette")).
		End()

	s.api().Post("/explorer").
		JSON(`{"name":"   ","country":"US"}`).
		Expect(t).
		Status(fiber.StatusBadRequest).
		Assert(jsonpath.Present("$.error.details.name")).
		End()

	s.api().Get("/explorer/Beau%20Buffette").
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.data.country", "US")).
		End()
}

func TestTokenEndpoint(t *testing.T) {
	s := newTestServer(t, 0)
	id, _ := s.signUp(t, "mina", domain.RoleUser)

	s.api().Post("/auth/token").
		FormData("username", id).
		FormData("password", "pw-mina").
		Expect(t).
		Status(fiber.StatusCreated).
		Assert(jsonpath.Present("$.access_token")).
		Assert(jsonpath.Equal("$.token_type", "bearer")).
		Assert(jsonpath.Equal("$.expires_in", float64(900))).
		Assert(jsonpath.NotPresent("$.refresh_token")).
		End()

	s.api().Post("/auth/token").
		JSON(fmt.Sprintf(`{"username":%q,"password":"wrong"}`, id)).
		Expect(t).
		Status(fiber.StatusUnauthorized).
		Header(fiber.HeaderWWWAuthenticate, "Bearer").
		Assert(jsonpath.Equal("$.error.message", "incorrect username or password")).
		End()

	s.api().Post("/auth/token").
		FormData("username", "nobody").
		FormData("password", "pw-mina").
		Expect(t).
		Status(fiber.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error.message", "incorrect username or password")).
		End()

	s.api().Post("/auth/refresh").
		JSON(`{"refresh_token":"x"}`).
		Expect(t).
		Status(fiber.StatusNotFound).
		End()
}

func TestTokenIntrospection(t *testing.T) {
	s := newTestServer(t, 0)
	id, bearer := s.signUp(t, "lucy", domain.RoleUser, domain.RoleAdmin)

	s.api().Get("/auth/token").
		Header(fiber.HeaderAuthorization, bearer).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.claims.sub", id)).
		Assert(jsonpath.Len("$.claims.roles", 2)).
		Assert(jsonpath.Present("$.claims.exp_utc")).
		Assert(jsonpath.Equal("$.user_exists", true)).
		End()

	s.api().Delete("/users/me").
		Header(fiber.HeaderAuthorization, bearer).
		Expect(t).
		Status(fiber.StatusNoContent).
		End()

	s.api().Get("/auth/token").
		Header(fiber.HeaderAuthorization, bearer).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.user_exists", false)).
		End()

	s.api().Get("/auth/token").
		Header(fiber.HeaderAuthorization, "Bearer not-a-token").
		Expect(t).
		Status(fiber.StatusUnauthorized).
		End()
}

func TestExpiredTokenIsRejected(t *testing.T) {
	s := newTestServer(t, 0)
	user, err := s.users.Create(context.Background(), service.SignUpInput{Name: "quincey", Password: "pw", Roles: []string{domain.RoleUser}})
	require.NoError(t, err)

	past := auth.NewTokenCodec("test-secret", func() time.Time { return time.Now().Add(-time.Hour) })
	ttl := time.Minute
	token, err := past.Encode(auth.NewClaims(user.ID, user.Roles), &ttl)
	require.NoError(t, err)

	s.api().Get("/users/me").
		Header(fiber.HeaderAuthorization, "Bearer "+token.AccessToken).
		Expect(t).
		Status(fiber.StatusUnauthorized).
		Header(fiber.HeaderWWWAuthenticate, "Bearer").
		End()
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t, 0)
	adminID, adminBearer := s.signUp(t, "seward", domain.RoleAdmin)
	userID, userBearer := s.signUp(t, "harker", domain.RoleUser)

	s.api().Post("/users").
		JSON(`{"name":"me","password":"pw"}`).
		Expect(t).
		Status(fiber.StatusBadRequest).
		Assert(jsonpath.Present("$.error.details.name")).
		End()

	s.api().Post("/users").
		JSON(`{"name":" arthur ","password":"pw"}`).
		Expect(t).
		Status(fiber.StatusCreated).
		Assert(jsonpath.Equal("$.data.name", "arthur")).
		Assert(jsonpath.Equal("$.data.roles[0]", "user")).
		Assert(jsonpath.NotPresent("$.data.password_hash")).
		End()

	s.api().Post("/users").
		JSON(`{"name":"arthur","password":"pw"}`).
		Expect(t).
		Status(fiber.StatusConflict).
		End()

	s.api().Get("/users").
		Header(fiber.HeaderAuthorization, userBearer).
		Expect(t).
		Status(fiber.StatusForbidden).
		End()

	s.api().Get("/users").
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Len("$.data", 3)).
		End()

	// admin alone does not satisfy the user role on /me routes
	s.api().Get("/users/me").
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusForbidden).
		End()

	s.api().Patch("/users/me").
		Header(fiber.HeaderAuthorization, userBearer).
		JSON(`{"name":"jonathan harker"}`).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.data.id", userID)).
		Assert(jsonpath.Equal("$.data.name", "jonathan harker")).
		End()

	s.api().Put("/users/" + userID).
		Header(fiber.HeaderAuthorization, adminBearer).
		JSON(`{"name":"seward"}`).
		Expect(t).
		Status(fiber.StatusConflict).
		End()

	s.api().Delete("/users/" + userID).
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusNoContent).
		End()

	s.api().Get("/users/"+userID).
		Query("deleted", "true").
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Present("$.data.deleted_at")).
		End()

	s.api().Get("/users/" + userID).
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusNotFound).
		End()

	s.api().Get("/users/" + adminID).
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.data.name", "seward")).
		End()
}

func TestAuditEvents(t *testing.T) {
	s := newTestServer(t, 0)
	adminID, adminBearer := s.signUp(t, "seward", domain.RoleAdmin)
	_, userBearer := s.signUp(t, "harker", domain.RoleUser)

	s.api().Delete("/creatures/yeti").
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusNoContent).
		End()

	s.api().Get("/audit/events").
		Header(fiber.HeaderAuthorization, userBearer).
		Expect(t).
		Status(fiber.StatusForbidden).
		End()

	s.api().Get("/audit/events").
		Query("key", "yeti").
		Header(fiber.HeaderAuthorization, adminBearer).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Len("$.data", 1)).
		Assert(jsonpath.Equal("$.data[0].event_type", "creature_deleted")).
		Assert(jsonpath.Equal("$.data[0].actor_id", adminID)).
		End()
}

func TestRefreshFlow(t *testing.T) {
	s := newTestServer(t, time.Hour)
	id, _ := s.signUp(t, "jonathan", domain.RoleUser)

	s.api().Post("/auth/token").
		FormData("username", id).
		FormData("password", "pw-jonathan").
		Expect(t).
		Status(fiber.StatusCreated).
		Assert(jsonpath.Present("$.refresh_token")).
		End()

	var login struct {
		RefreshToken string `json:"refresh_token"`
	}
	s.api().Post("/auth/token").
		FormData("username", id).
		FormData("password", "pw-jonathan").
		Expect(t).
		Status(fiber.StatusCreated).
		End().
		JSON(&login)
	require.NotEmpty(t, login.RefreshToken)

	var rotated struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	s.api().Post("/auth/refresh").
		JSON(fmt.Sprintf(`{"refresh_token":%q}`, login.RefreshToken)).
		Expect(t).
		Status(fiber.StatusCreated).
		End().
		JSON(&rotated)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEmpty(t, rotated.RefreshToken)
	require.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	s.api().Get("/auth/token").
		Header(fiber.HeaderAuthorization, "Bearer "+rotated.AccessToken).
		Expect(t).
		Status(fiber.StatusOK).
		Assert(jsonpath.Equal("$.claims.sub", id)).
		Assert(jsonpath.Equal("$.user_exists", true)).
		End()

	// refresh tokens are single use
	s.api().Post("/auth/refresh").
		JSON(fmt.Sprintf(`{"refresh_token":%q}`, login.RefreshToken)).
		Expect(t).
		Status(fiber.StatusUnauthorized).
		Header(fiber.HeaderWWWAuthenticate, "Bearer").
		End()

	s.api().Post("/auth/refresh").
		JSON(fmt.Sprintf(`{"refresh_token":%q}`, rotated.RefreshToken)).
		Expect(t).
		Status(fiber.StatusCreated).
		Assert(jsonpath.Present("$.refresh_token")).
		End()

	s.api().Post("/auth/refresh").
		JSON(`{"refresh_token":"never-issued"}`).
		Expect(t).
		Status(fiber.StatusUnauthorized).
		Header(fiber.HeaderWWWAuthenticate, "Bearer").
		End()

	s.api().Post("/auth/refresh").
		JSON(`{}`).
		Expect(t).
		Status(fiber.StatusBadRequest).
		Assert(jsonpath.Present("$.error.details.refresh_token")).
		End()
}
