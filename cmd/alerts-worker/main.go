package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Tijigui/fintrack/internal/alerts"
	"github.com/Tijigui/fintrack/internal/config"
	applog "github.com/Tijigui/fintrack/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting alerts-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alerts worker")
		os.Exit(1)
	}

	client, err := alerts.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	alertLog := logger.WithComponent(applog.ComponentAlerts)
	err = client.ConsumeBudgetAlerts(ctx, func(alert *alerts.BudgetAlert) error {
		// Recording the alert is the whole job; notification channels hang
		// off this log stream.
		alertLog.Info("Budget limit crossed",
			applog.FieldUserID, alert.UserID,
			applog.FieldCategory, alert.Category,
			"period", alert.Period,
			"limit_cents", alert.LimitCents,
			"spent_cents", alert.SpentCents)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
