package server

import (
	"context"
	"fmt"

	"github.com/iudanet/bloglist/internal/config"
	"github.com/iudanet/bloglist/internal/server/storage"
	"github.com/iudanet/bloglist/internal/server/storage/boltdb"
	"github.com/iudanet/bloglist/internal/server/storage/memory"
	"github.com/iudanet/bloglist/internal/server/storage/postgres"
	"github.com/iudanet/bloglist/internal/server/storage/sqlite"
)

// OpenStore opens the storage backend selected in cfg
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return sqlite.New(ctx, cfg.SQLitePath)
	case config.StorageBolt:
		return boltdb.New(ctx, cfg.BoltPath)
	case config.StoragePostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case config.StorageMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage: %q", cfg.Storage)
	}
}
