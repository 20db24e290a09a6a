package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gastos/internal/amqp"
	"gastos/internal/config"
	applog "gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/storage"
	"gastos/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.Setup("error", "text", applog.ComponentWorker).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := applog.Setup(cfg.LogLevel, cfg.LogFormat, applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting gastos-worker")

	var (
		repo storage.Repository
		err  error
	)
	switch cfg.DataBackend {
	case "memory":
		repo = storage.NewMemoryRepository()
	default:
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without breach events", "error", err)
			amqpClient = nil
		}
	}

	app := services.NewApp(repo, amqpClient)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Close error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Load(ctx); err != nil {
		logger.Error("Failed to load collections", "error", err)
		os.Exit(1)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.NewAlertWorker(app.Alerts, cfg.VerifyInterval).Run(gctx)
	})
	if amqpClient != nil {
		g.Go(func() error {
			return worker.NewBreachLogger(amqpClient).Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
