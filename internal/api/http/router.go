package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/cryptid/internal/api/http/handlers"
	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Creatures *handlers.CreaturesHandler
	Explorers *handlers.ExplorersHandler
	Audit     *handlers.AuditHandler
	Gate      *auth.Gate
	// RefreshEnabled registers POST /auth/refresh.
	RefreshEnabled bool
}

// AppConfig configures the fiber application built by NewApp.
type AppConfig struct {
	Name           string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	VerboseErrors  bool
}

// NewApp builds the fiber application with middlewares and routes attached.
func NewApp(cfg AppConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler(cfg.Logger, cfg.Metrics, cfg.VerboseErrors),
		UnescapePath: true,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout, cfg.VerboseErrors)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Status)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	admin := cfg.Gate.RequireRoles(domain.RoleAdmin)
	user := cfg.Gate.RequireRoles(domain.RoleUser)

	authGroup := app.Group("/auth")
	authGroup.Post("/token", cfg.Auth.Token)
	authGroup.Get("/token", cfg.Auth.Introspect)
	if cfg.RefreshEnabled {
		authGroup.Post("/refresh", cfg.Auth.Refresh)
	}

	users := app.Group("/users")
	users.Post("/", cfg.Users.Create)
	users.Get("/", admin, cfg.Users.List)
	users.Get("/me", user, cfg.Users.Me)
	users.Put("/me", user, cfg.Users.ReplaceMe)
	users.Patch("/me", user, cfg.Users.ModifyMe)
	users.Delete("/me", user, cfg.Users.DeleteMe)
	users.Get("/:id", admin, cfg.Users.Get)
	users.Put("/:id", admin, cfg.Users.Replace)
	users.Patch("/:id", admin, cfg.Users.Modify)
	users.Delete("/:id", admin, cfg.Users.Delete)

	creatures := app.Group("/creatures")
	creatures.Get("/", cfg.Creatures.List)
	creatures.Get("/:name", cfg.Creatures.Get)
	creatures.Post("/", admin, cfg.Creatures.Create)
	creatures.Put("/:name", admin, cfg.Creatures.Replace)
	creatures.Patch("/:name", admin, cfg.Creatures.Modify)
	creatures.Delete("/:name", admin, cfg.Creatures.Delete)

	explorers := app.Group("/explorer")
	explorers.Get("/", cfg.Explorers.List)
	explorers.Get("/:name", cfg.Explorers.Get)
	explorers.Post("/", cfg.Explorers.Create)
	explorers.Put("/:name", cfg.Explorers.Replace)
	explorers.Patch("/:name", cfg.Explorers.Modify)
	explorers.Delete("/:name", cfg.Explorers.Delete)

	app.Get("/audit/events", admin, cfg.Audit.List)
}
