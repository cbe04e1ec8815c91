// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds configuration for store creation.
type Config struct {
	// Backend is the storage backend: "memory", "sqlite" or "redis"
	Backend string

	// Path is the SQLite database file (only for sqlite)
	Path string

	// RedisURL is the Redis connection URL (only for redis)
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis)
	Prefix string
}

// New creates a store for the configured backend.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil

	case BackendSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		return OpenSQLite(cfg.Path)

	case BackendRedis:
		opts := DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		return NewRedisStore(opts)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// SanitizeRedisURL masks the password of a Redis URL so it can be logged.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
