package clientstorage

import (
	"context"
	"fmt"
	"log"

	"association-storefront/internal/config"
	"association-storefront/internal/db"
)

// Open connects the backend named by cfg.StorageBackend. The returned
// function releases its connections.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (Repository, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return NewMemory(), func() {}, nil
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgres(pool, logger), pool.Close, nil
	case config.StorageRedis:
		client, err := db.ConnectRedis(ctx, cfg.RedisURL, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return NewRedis(client, cfg.StorageTTL), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
