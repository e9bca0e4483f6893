package config

import (
	"time"

	"github.com/rickgao/bfo-scripmaster/internal/api"
	"github.com/rickgao/bfo-scripmaster/internal/normalize"
)

// Default values for optional configuration fields.
const (
	DefaultBaseURL        = api.DefaultBaseURL
	DefaultAPITimeout     = 30 * time.Second
	DefaultBurst          = 1
	DefaultStoreDriver    = DriverFile
	DefaultStoreDir       = "."
	DefaultSQLitePath     = "scripmaster.db"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 1
	DefaultRedisKeyPrefix = "scripmaster"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.Burst == 0 {
		c.API.Burst = DefaultBurst
	}

	// Store defaults
	if c.Store.Driver == "" {
		c.Store.Driver = DefaultStoreDriver
	}
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultStoreDir
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = DefaultSQLitePath
	}
	applyDBDefaults(&c.Store.Postgres)
	if c.Store.Redis.KeyPrefix == "" {
		c.Store.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if len(c.IndexNames) == 0 {
		c.IndexNames = append([]string(nil), normalize.DefaultIndexNames...)
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
