package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mindpay/internal/config"
	"mindpay/internal/db"
	"mindpay/internal/logger"
	"mindpay/internal/notify"
	"mindpay/internal/server"
)

const (
	shutdownTimeout     = 30 * time.Second
	queueReportInterval = 30 * time.Second
)

// @title MindPay API
// @version 1.0
// @description Commission and payout engine for the psychologist marketplace.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Starting MindPay", "env", cfg.AppEnv, "port", cfg.Port)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := startNotifications(ctx, cfg)
	defer queue.Close()

	srv := server.New(database, cfg, queue)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case err := <-serveErr:
		logger.Error("HTTP server failed", "error", err.Error())
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

// startNotifications connects the payout notice queue. Delivery only runs when
// a webhook is configured; otherwise notices accumulate for an external
// consumer. A Redis outage never blocks startup.
func startNotifications(ctx context.Context, cfg *config.Config) *notify.Queue {
	queue := notify.New(cfg.RedisAddr)
	if err := queue.Ping(ctx); err != nil {
		logger.Warn("Redis unavailable, payout notices will be skipped until it recovers", "error", err.Error())
	}

	if cfg.NotifyWebhookURL != "" {
		go notify.NewWorker(queue, notify.NewWebhookDeliverer(cfg.NotifyWebhookURL)).Start(ctx)
		logger.Info("Payout notice delivery enabled")
	}

	go func() {
		ticker := time.NewTicker(queueReportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				queue.QueueLength(ctx)
			}
		}
	}()

	return queue
}
