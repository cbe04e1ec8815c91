// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the UniEvent configuration from the environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/logging"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env       string `env:"UNIEVENT_ENV" envDefault:"development"`
	LogLevel  string `env:"UNIEVENT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"UNIEVENT_LOG_FORMAT" envDefault:"text"`

	// Storage configuration
	Storage   string `env:"UNIEVENT_STORAGE" envDefault:"sqlite"`             // memory, sqlite or redis
	DBPath    string `env:"UNIEVENT_DB_PATH" envDefault:"./data/unievent.db"` // SQLite database file
	RedisURL  string `env:"UNIEVENT_REDIS_URL"`                               // Required for the redis backend
	KeyPrefix string `env:"UNIEVENT_KEY_PREFIX" envDefault:"unievent:"`       // Redis key prefix

	// MigrationSchedule is the cron expression of the pass that moves past
	// registrations to the completed history.
	MigrationSchedule string `env:"UNIEVENT_MIGRATION_SCHEDULE" envDefault:"@daily"`

	// FlushTimeout bounds how long shutdown waits for queued writes.
	FlushTimeout time.Duration `env:"UNIEVENT_FLUSH_TIMEOUT" envDefault:"5s"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// KVConfig returns the storage settings for kv.New.
func (c Config) KVConfig() kv.Config {
	return kv.Config{
		Backend:  c.Storage,
		Path:     c.DBPath,
		RedisURL: c.RedisURL,
		Prefix:   c.KeyPrefix,
	}
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses the given environment and returns a validated Config.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	backends := []string{kv.BackendMemory, kv.BackendSQLite, kv.BackendRedis}
	if !slices.Contains(backends, c.Storage) {
		return fmt.Errorf("UNIEVENT_STORAGE must be one of %v, got %q", backends, c.Storage)
	}

	if c.Storage == kv.BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("UNIEVENT_REDIS_URL is required when UNIEVENT_STORAGE=redis")
	}

	if c.Storage == kv.BackendSQLite && c.DBPath == "" {
		return fmt.Errorf("UNIEVENT_DB_PATH must not be empty when UNIEVENT_STORAGE=sqlite")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("UNIEVENT_LOG_LEVEL: %w", err)
	}

	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("UNIEVENT_LOG_FORMAT must be %q or %q, got %q",
			logging.FormatText, logging.FormatJSON, c.LogFormat)
	}

	if _, err := cron.ParseStandard(c.MigrationSchedule); err != nil {
		return fmt.Errorf("UNIEVENT_MIGRATION_SCHEDULE %q: %w", c.MigrationSchedule, err)
	}

	if c.FlushTimeout <= 0 {
		return fmt.Errorf("UNIEVENT_FLUSH_TIMEOUT must be positive, got %s", c.FlushTimeout)
	}

	return nil
}
