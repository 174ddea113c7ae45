package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/cryptid/internal/api/http"
	"github.com/spec-kit/cryptid/internal/api/http/handlers"
	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/config"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/observability"
	"github.com/spec-kit/cryptid/internal/persistence"
	"github.com/spec-kit/cryptid/internal/repository"
	"github.com/spec-kit/cryptid/internal/service"
	"github.com/spec-kit/cryptid/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	auditService := service.NewAuditService(dispatcher, repository.NewAuditRepository(pool), logger.Named("audit"))
	worker.StartAuditWorker(auditService)

	userRepo := repository.NewUserRepository(pool)
	creatureRepo := repository.NewCreatureRepository(pool)
	explorerRepo := repository.NewExplorerRepository(pool)

	var refreshRepo repository.RefreshTokenRepository
	refreshTTL := cfg.Auth.RefreshTTL()
	if client := redis.Handle(); client != nil && refreshTTL > 0 {
		refreshRepo = repository.NewRefreshTokenRepository(client)
	} else if refreshTTL > 0 {
		logger.Warn("refresh tokens need redis; disabling them")
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, time.Now)
	authenticator := auth.NewAuthenticator(userRepo, hasher, codec, cfg.Auth.AccessTTL())

	authService := service.NewAuthService(service.AuthDependencies{
		Authenticator: authenticator,
		UserRepo:      userRepo,
		RefreshRepo:   refreshRepo,
		RefreshTTL:    refreshTTL,
		Dispatcher:    dispatcher,
	})

	dependencies := map[string]handlers.Pinger{"postgres": pg}
	if redis.Handle() != nil {
		dependencies["redis"] = redis
	}

	app := httptransport.NewApp(httptransport.AppConfig{
		Name:           cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		VerboseErrors:  cfg.Auth.VerboseErrors,
	}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(service.NewUserService(userRepo, hasher, dispatcher)),
		Creatures:      handlers.NewCreaturesHandler(service.NewCreatureService(creatureRepo, dispatcher)),
		Explorers:      handlers.NewExplorersHandler(service.NewExplorerService(explorerRepo, dispatcher)),
		Audit:          handlers.NewAuditHandler(auditService),
		Gate:           auth.NewGate(codec),
		RefreshEnabled: authService.RefreshEnabled(),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
