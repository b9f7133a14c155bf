package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"BOT_TOKEN"` specify the environment variable name;
// `default:""` provides a fallback and `required:"true"` makes a variable
// mandatory.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Bot      BotConfig
	Health   HealthConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Session  SessionConfig
}

// BotConfig holds the Telegram transport settings. AdminIDs is the immutable
// allow-list of privileged user ids; leaving it empty means no one is
// privileged.
type BotConfig struct {
	Token       string        `envconfig:"BOT_TOKEN" required:"true"`
	AdminIDs    []int64       `envconfig:"ADMIN_IDS"`
	PollTimeout time.Duration `envconfig:"BOT_POLL_TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"BOT_DEBUG" default:"false"`
}

// HealthConfig holds the settings for the HTTP liveness endpoint.
type HealthConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
}

// PostgresConfig holds PostgreSQL database connection details.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName   string `envconfig:"POSTGRES_DBNAME" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// RedisConfig holds the optional Redis session backend settings. An empty Addr
// selects the in-memory store.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SessionConfig controls session-scratch lifetime. A zero TTL keeps sessions
// for the process lifetime (memory) or without expiry (redis).
type SessionConfig struct {
	TTL time.Duration `envconfig:"SESSION_TTL" default:"0"`
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return &cfg, nil
}
