package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/savora/core/config"
	"github.com/savora/core/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.KeyValueStore = (*MemoryStore)(nil)
	_ domain.KeyValueStore = (*FileStore)(nil)
	_ domain.KeyValueStore = (*SQLiteStore)(nil)
	_ domain.KeyValueStore = (*RedisStore)(nil)
)

// New opens the backend selected by cfg.Type
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (domain.KeyValueStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Type {
	case "memory":
		logger.Info("Using in-memory storage; favorites will not survive a restart")
		return NewMemoryStore(), nil
	case "file", "":
		logger.Info("Using file storage", zap.String("path", cfg.Path))
		return NewFileStore(cfg.Path)
	case "sqlite":
		logger.Info("Using SQLite storage", zap.String("path", cfg.Path))
		return NewSQLiteStore(cfg.Path)
	case "redis":
		logger.Info("Using Redis storage")
		return NewRedisStore(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
