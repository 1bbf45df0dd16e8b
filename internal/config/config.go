package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Backend kinds selectable via STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Storage backend selection. The core depends only on the store
	// interface; the kind is resolved once at startup.
	StoreBackend  string `env:"STORE_BACKEND" default:"file"`
	DataFile      string `env:"DATA_FILE" default:"data/submissions.json"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`
	MirrorBackend string `env:"MIRROR_BACKEND"`

	// Admin credentials and session signing.
	AdminUser     string        `env:"ADMIN_USER" default:"admin"`
	AdminPass     string        `env:"ADMIN_PASS"`
	AdminToken    string        `env:"ADMIN_TOKEN"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"12h"`

	// Notification stream tuning.
	StreamPollInterval time.Duration `env:"STREAM_POLL_INTERVAL" default:"1s"`
	StreamPingInterval time.Duration `env:"STREAM_PING_INTERVAL" default:"25s"`
	StreamMaxLifetime  time.Duration `env:"STREAM_MAX_LIFETIME" default:"5m"`

	// Ingestion rate limit (requests per second per client IP).
	FeedbackRateLimit float64 `env:"FEEDBACK_RATE_LIMIT" default:"5"`

	// Static assets directory; empty disables static serving.
	PublicDir string `env:"PUBLIC_DIR" default:"web/public"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.AdminPass == "" {
		return fmt.Errorf("ADMIN_PASS is required")
	}

	if err := validateBackend("STORE_BACKEND", cfg.StoreBackend, cfg); err != nil {
		return err
	}
	if cfg.MirrorBackend != "" {
		if cfg.MirrorBackend == cfg.StoreBackend {
			return fmt.Errorf("MIRROR_BACKEND must differ from STORE_BACKEND")
		}
		if err := validateBackend("MIRROR_BACKEND", cfg.MirrorBackend, cfg); err != nil {
			return err
		}
	}

	if cfg.StreamPollInterval <= 0 {
		return fmt.Errorf("STREAM_POLL_INTERVAL must be positive")
	}
	if cfg.StreamMaxLifetime <= cfg.StreamPollInterval {
		return fmt.Errorf("STREAM_MAX_LIFETIME must exceed STREAM_POLL_INTERVAL")
	}
	if cfg.FeedbackRateLimit <= 0 {
		return fmt.Errorf("FEEDBACK_RATE_LIMIT must be positive")
	}

	return nil
}

func validateBackend(name, kind string, cfg *Config) error {
	switch kind {
	case BackendMemory:
	case BackendFile:
		if cfg.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required when %s=file", name)
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when %s=redis", name)
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when %s=postgres", name)
		}
	default:
		return fmt.Errorf("%s must be one of memory, file, redis, postgres (got %q)", name, kind)
	}
	return nil
}
