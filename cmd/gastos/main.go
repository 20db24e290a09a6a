package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gastos/internal/amqp"
	"gastos/internal/config"
	apphttp "gastos/internal/http"
	applog "gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.Setup("error", "text", applog.ComponentApp).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := applog.Setup(cfg.LogLevel, cfg.LogFormat, applog.ComponentApp)
	applog.SetDefault(logger)

	// Choose data backend
	var (
		repo storage.Repository
		err  error
	)
	switch cfg.DataBackend {
	case "memory":
		repo = storage.NewMemoryRepository()
		logger.Info("Initialized memory backend")
	default:
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	}

	// AMQP is optional: without a broker breaches are journaled locally only.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without breach events", "error", err)
			amqpClient = nil
		} else {
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - breach events will not be published")
	}

	app := services.NewApp(repo, amqpClient)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Close error", "error", err)
		}
	}()

	if err := app.Load(context.Background()); err != nil {
		logger.Error("Failed to load collections", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, app)
	srv.Handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(srv.Handler)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting gastos server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
