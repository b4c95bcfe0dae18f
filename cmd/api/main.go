package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kruxfinance/support-chat/internal/api/http"
	"github.com/kruxfinance/support-chat/internal/api/http/handlers"
	"github.com/kruxfinance/support-chat/internal/auth"
	"github.com/kruxfinance/support-chat/internal/bot"
	"github.com/kruxfinance/support-chat/internal/config"
	"github.com/kruxfinance/support-chat/internal/events"
	"github.com/kruxfinance/support-chat/internal/observability"
	"github.com/kruxfinance/support-chat/internal/persistence"
	"github.com/kruxfinance/support-chat/internal/repository"
	"github.com/kruxfinance/support-chat/internal/roster"
	"github.com/kruxfinance/support-chat/internal/service"
	"github.com/kruxfinance/support-chat/internal/store"
	"github.com/kruxfinance/support-chat/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := openStateBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open state storage", zap.String("driver", cfg.State.Driver), zap.Error(err))
	}
	defer backend.close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	st := store.New(ctx, store.Dependencies{
		Repo:       backend.repo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	generator, err := bot.NewGenerator(ctx, cfg.Bot, logger)
	if err != nil {
		logger.Fatal("failed to init bot backend", zap.String("provider", cfg.Bot.Provider), zap.Error(err))
	}
	responder := bot.NewResponder(generator, bot.Options{Timeout: cfg.Bot.Timeout(), Logger: logger})

	directory := roster.Default()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	authService := service.NewAuthService(directory, st, tokens, logger)
	chatService := service.NewChatService(st)
	supportService := service.NewSupportService(st, directory, logger)
	botService := service.NewBotService(st, responder, metrics, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	botWorker := worker.NewBotWorker(botService, cfg.Bot.GreetingDelay(), logger)
	worker.Start(dispatcher, notificationService, botWorker)

	probes := map[string]handlers.Pinger{"state": st}
	for name, probe := range backend.probes {
		probes[name] = probe
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes),
		Auth:           handlers.NewAuthHandler(authService),
		Customer:       handlers.NewCustomerHandler(chatService),
		Agent:          handlers.NewAgentHandler(supportService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, directory),
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	botWorker.Stop()
}

type stateBackend struct {
	repo   repository.StateRepository
	probes map[string]handlers.Pinger
	close  func()
}

// openStateBackend selects the backing store for the state document.
func openStateBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (stateBackend, error) {
	switch cfg.State.Driver {
	case config.StateDriverMemory:
		logger.Warn("using in-memory state; tickets are lost on restart")
		return stateBackend{repo: repository.NewMemoryStateRepository(), close: func() {}}, nil

	case config.StateDriverRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		return stateBackend{
			repo:   repository.NewRedisStateRepository(rdb.Client, cfg.State.Key),
			probes: map[string]handlers.Pinger{"redis": rdb},
			close:  rdb.Close,
		}, nil

	case config.StateDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
		if err != nil {
			return stateBackend{}, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return stateBackend{}, err
			}
		}
		return stateBackend{
			repo:   repository.NewPostgresStateRepository(pg.PoolHandle(), cfg.State.Key),
			probes: map[string]handlers.Pinger{"postgres": pg},
			close:  pg.Close,
		}, nil

	case config.StateDriverBadger:
		bdb, err := persistence.NewBadger(cfg.Badger, logger)
		if err != nil {
			return stateBackend{}, err
		}
		return stateBackend{
			repo:   repository.NewBadgerStateRepository(bdb.DB, cfg.State.Key),
			probes: map[string]handlers.Pinger{"badger": bdb},
			close:  bdb.Close,
		}, nil
	}
	return stateBackend{}, fmt.Errorf("unknown state driver %q", cfg.State.Driver)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
