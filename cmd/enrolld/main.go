package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/enrolld/enrolld/internal/app"
	"github.com/enrolld/enrolld/internal/health"
	"github.com/enrolld/enrolld/internal/notify"
	"github.com/enrolld/enrolld/internal/observability"
	"github.com/enrolld/enrolld/internal/platform/cache"
	"github.com/enrolld/enrolld/internal/platform/db"
	"github.com/enrolld/enrolld/internal/registration"
	"github.com/enrolld/enrolld/jobs"
	"github.com/enrolld/enrolld/migrations"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	var queueClient *jobs.Client
	var jobHandler *jobs.Handler
	if cfg.Notifier == "queue" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()

		queueClient, err = jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Error("init queue client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := queueClient.Close(); err != nil {
				logger.Warn("queue client close", slog.Any("error", err))
			}
		}()

		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	notifier, err := notify.FromConfig(cfg, logger, queueClient)
	if err != nil {
		logger.Error("init notifier", slog.Any("error", err))
		os.Exit(1)
	}

	repo := registration.NewRepository(pool)
	service := registration.NewService(repo, notifier, logger, registration.ServiceConfig{
		CodeTTL:           cfg.ActivationCodeTTL,
		CodeAttempts:      cfg.CodeAttempts,
		PasswordMinLength: cfg.PasswordMinLength,
	})
	registrationHandler := registration.NewHandler(logger, service)
	healthHandler := health.NewHandler(pool, logger)
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		RegistrationHandler: registrationHandler,
		HealthHandler:       healthHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
