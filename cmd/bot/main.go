package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/app"
	"github.com/Freeeeeet/meeting_bot/internal/config"
	"github.com/Freeeeeet/meeting_bot/internal/controller"
	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/datectx"
	"github.com/Freeeeeet/meeting_bot/internal/repository"
	"github.com/Freeeeeet/meeting_bot/internal/service"
	"github.com/Freeeeeet/meeting_bot/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	logger.Sugar().Infow("Starting meeting bot",
		"environment", cfg.Environment,
		"api_url", cfg.API.URL,
		"token_length", len(cfg.TelegramToken))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := runMigrations(ctx, pool, cfg, logger); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	apiClient := api.NewClient(api.Options{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Metrics: api.NewMetrics(registry),
		Logger:  logger.Named("api"),
	})

	stateManager := state.NewManager()
	screenRegistry := screens.NewRegistry(
		datectx.NewRegistry(time.Now),
		func(token string) screens.API { return apiClient.WithToken(token) },
		logger.Named("screens"),
	)

	sessionService := service.NewSessionService(
		repository.NewSessionRepository(pool),
		apiClient,
		cfg.Session.TTL,
		logger,
	)
	// Выход забывает экраны, дату и незавершённый ввод
	sessionService.OnLogout(screenRegistry.Drop)
	sessionService.OnLogout(stateManager.ClearState)

	scheduler := app.NewScheduler(sessionService, cfg.Session.CleanupInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	var metricsServer *app.MetricsServer
	if cfg.Metrics.Addr != "" {
		metricsServer = app.NewMetricsServer(cfg.Metrics.Addr, registry, logger)
		metricsServer.Start()
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, sessionService, screenRegistry, stateManager, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop metrics server", zap.Error(err))
		}
	}
}

// runMigrations применяет миграции: встроенные или из MIGRATIONS_DIR
func runMigrations(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	var migrator *app.Migrator
	var err error
	if cfg.Migration.Dir == "" {
		migrator, err = app.NewMigrator(pool, migrations.FS, ".", logger)
	} else {
		migrator, err = app.NewMigrator(pool, nil, cfg.Migration.Dir, logger)
	}
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}
