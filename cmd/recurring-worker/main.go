package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Tijigui/fintrack/internal/config"
	applog "github.com/Tijigui/fintrack/internal/log"
	"github.com/Tijigui/fintrack/internal/recurring"
	"github.com/Tijigui/fintrack/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", applog.FieldError, err)
		os.Exit(1)
	}
	defer store.Close()

	processor := recurring.NewProcessor(store, logger)

	run := func() {
		count, err := processor.ProcessDue(ctx, time.Now())
		if err != nil {
			logger.Error("Recurring processing failed", applog.FieldError, err)
			return
		}
		logger.Info("Recurring processing complete", "transactions_created", count)
	}

	// Catch up immediately on startup, then follow the schedule.
	run()

	c := cron.New()
	if _, err := c.AddFunc(cfg.RecurringSchedule, run); err != nil {
		logger.Error("Invalid recurring schedule", applog.FieldError, err, "schedule", cfg.RecurringSchedule)
		os.Exit(1)
	}
	c.Start()
	logger.Info("Scheduler started", "schedule", cfg.RecurringSchedule)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("Timed out waiting for running jobs")
	}
	logger.Info("Worker stopped gracefully")
}
