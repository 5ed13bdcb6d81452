package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/hub"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/store"
	"github.com/spec-kit/support-desk/internal/validation"
)

// snapshotStore is what every backend provides: persistence plus a probe.
type snapshotStore interface {
	store.SnapshotStore
	Ping(ctx context.Context) error
}

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

	snapshots, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init snapshot store", zap.Error(err))
	}
	defer closeStore()

	dispatcher := events.NewInMemoryDispatcher()

	notificationHub := hub.NewHub(logger)
	defer notificationHub.Close()
	notificationHub.RegisterHandlers(dispatcher)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      snapshots,
		Validator:  validation.NewValidator(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, snapshots),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Hub:     notificationHub,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (snapshotStore, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.StoreBackendRedis:
		rs := store.NewRedisStore(cfg.Redis, cfg.Store.RedisKey, logger)
		return rs, rs.Close, nil
	default:
		fs, err := store.NewFileStore(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
