package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/risk-catalog/internal/api/http"
	"github.com/spec-kit/risk-catalog/internal/api/http/handlers"
	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/config"
	"github.com/spec-kit/risk-catalog/internal/events"
	"github.com/spec-kit/risk-catalog/internal/observability"
	"github.com/spec-kit/risk-catalog/internal/persistence"
	"github.com/spec-kit/risk-catalog/internal/repository"
	"github.com/spec-kit/risk-catalog/internal/service"
	"github.com/spec-kit/risk-catalog/internal/store"
	"github.com/spec-kit/risk-catalog/internal/worker"
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

	var docStore store.DocumentStore
	switch cfg.Store.Backend {
	case config.BackendPostgres:
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
		docStore = store.NewPostgresStore(pg.PoolHandle())
	case config.BackendRedis:
		rd := persistence.NewRedis(cfg.Redis, logger)
		defer rd.Close()
		docStore = store.NewRedisStore(rd.Client)
	}
	logger.Info("document store ready", zap.String("backend", cfg.Store.Backend))

	userRepo := repository.NewUserRepository(docStore)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo, dispatcher)
	catalogService := service.NewCatalogService(docStore, dispatcher)
	auditService := service.NewAuditService(dispatcher, logger, cfg.Audit)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, docStore),
		Auth:             handlers.NewAuthHandler(authService),
		Users:            handlers.NewUsersHandler(userRepo, cfg.Auth.BcryptCost),
		Catalog:          handlers.NewCatalogHandler(catalogService),
		AuthMiddleware:   authMiddleware,
		AdminOnlyCatalog: cfg.Auth.AdminOnlyCatalog,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
