package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/bfo-scripmaster/internal/config"
	"github.com/rickgao/bfo-scripmaster/internal/database"
	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// ErrNotFound is returned when a named table has never been written.
var ErrNotFound = errors.New("store: table not found")

// Store persists normalized tables by name.
type Store interface {
	// Exists reports whether a table with the given name has been written.
	Exists(ctx context.Context, name string) (bool, error)

	// LastModified returns when the table was last written.
	LastModified(ctx context.Context, name string) (time.Time, error)

	// Read loads the whole table.
	Read(ctx context.Context, name string) (model.Table, error)

	// Write replaces the table.
	Write(ctx context.Context, name string, table model.Table) error

	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case config.DriverFile, "":
		logger.Debug("using file store", "dir", cfg.Dir)
		return NewFileStore(cfg.Dir), nil

	case config.DriverSQLite:
		logger.Debug("using sqlite store", "path", cfg.SQLitePath)
		return OpenSQLite(ctx, cfg.SQLitePath)

	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Debug("using postgres store", "host", cfg.Postgres.Host, "database", cfg.Postgres.Name)
		return st, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Debug("using redis store", "addr", cfg.Redis.Addr)
		return NewRedisStore(client, cfg.Redis.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
