package storage

import (
	"context"
	"fmt"

	"github.com/Tijigui/fintrack/internal/config"
	applog "github.com/Tijigui/fintrack/internal/log"
	"github.com/Tijigui/fintrack/internal/storage/memory"
	"github.com/Tijigui/fintrack/internal/storage/postgres"
	"github.com/Tijigui/fintrack/internal/storage/sqlite"
)

// Open creates the Store selected by the configuration.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		store, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("Initialized postgres backend")
		return store, nil
	case "sqlite":
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil
	case "memory":
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
