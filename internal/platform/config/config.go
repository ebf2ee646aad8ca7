// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv       string `env:"APP_ENV" default:"development"`
	Port         string `env:"PORT" default:"8080"`
	StoreBackend string `env:"STORE_BACKEND" default:"postgres"` // postgres | memory
	DatabaseURL  string `env:"DATABASE_URL"`
	RedisURL     string `env:"REDIS_URL"` // optional; empty disables toggle rate limiting
	LogLevel     string `env:"LOG_LEVEL" default:"info"`
	LogFormat    string `env:"LOG_FORMAT" default:"text"`

	// Boundary clamps for leaderboard queries; the core accepts any positive values.
	LeaderboardMaxLimit  int           `env:"LEADERBOARD_MAX_LIMIT" default:"100"`
	LeaderboardMaxWindow time.Duration `env:"LEADERBOARD_MAX_WINDOW" default:"168h"` // 1 week

	ToggleRateCapacity  int `env:"TOGGLE_RATE_CAPACITY" default:"30"`
	ToggleRatePerMinute int `env:"TOGGLE_RATE_PER_MINUTE" default:"60"`

	ToggleRetryAttempts int           `env:"TOGGLE_RETRY_ATTEMPTS" default:"3"`
	ToggleRetryBackoff  time.Duration `env:"TOGGLE_RETRY_BACKOFF" default:"25ms"`
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
	switch cfg.StoreBackend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case "memory":
		// no external dependencies
	default:
		return fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", cfg.StoreBackend)
	}

	if cfg.LeaderboardMaxLimit < 1 {
		return errors.New("LEADERBOARD_MAX_LIMIT must be at least 1")
	}
	if cfg.LeaderboardMaxWindow < time.Hour {
		return errors.New("LEADERBOARD_MAX_WINDOW must be at least 1h")
	}
	if cfg.ToggleRetryAttempts < 1 {
		return errors.New("TOGGLE_RETRY_ATTEMPTS must be at least 1")
	}

	return nil
}
