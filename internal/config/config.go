package config

import "time"

// Config is the root configuration of the scrip master resolver.
//
// Leaf fields use split_words so that only prefixed variables are read;
// an explicit envconfig tag would also match the bare name (e.g. $USER).
type Config struct {
	API        APIConfig     `yaml:"api" envconfig:"API"`
	Store      StoreConfig   `yaml:"store" envconfig:"STORE"`
	IndexNames []string      `yaml:"index_names" split_words:"true"` // Index underlyings, match priority order
	Logging    LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// APIConfig holds scrip master service settings.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" split_words:"true"`
	APIKey    string        `yaml:"api_key" split_words:"true"` // Optional bearer token
	Timeout   time.Duration `yaml:"timeout" split_words:"true"`
	RateLimit float64       `yaml:"rate_limit" split_words:"true"` // Requests per second, 0 = unlimited
	Burst     int           `yaml:"burst" split_words:"true"`
}

// Store drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StoreConfig selects where normalized tables are cached.
type StoreConfig struct {
	Driver     string      `yaml:"driver" split_words:"true"`
	Dir        string      `yaml:"dir" split_words:"true"`              // file driver
	SQLitePath string      `yaml:"sqlite_path" envconfig:"SQLITE_PATH"` // sqlite driver
	Postgres   DBConfig    `yaml:"postgres" envconfig:"POSTGRES"`
	Redis      RedisConfig `yaml:"redis" envconfig:"REDIS"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	Name     string `yaml:"name" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
	MaxConns int    `yaml:"max_conns" split_words:"true"`
	MinConns int    `yaml:"min_conns" split_words:"true"`
}

// RedisConfig holds the Redis connection for the redis driver.
type RedisConfig struct {
	Addr      string `yaml:"addr" split_words:"true"`
	Password  string `yaml:"password" split_words:"true"`
	DB        int    `yaml:"db" split_words:"true"`
	KeyPrefix string `yaml:"key_prefix" split_words:"true"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`  // debug, info, warn, error
	Format string `yaml:"format" split_words:"true"` // text or json
}
