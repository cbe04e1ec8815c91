// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegiv/unievent/internal/app"
	"github.com/olegiv/unievent/internal/config"
	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/logging"
	"github.com/olegiv/unievent/internal/scheduler"
	"github.com/olegiv/unievent/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "UniEvent - University event registration core\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_LOG_LEVEL           debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_LOG_FORMAT          text|json (default: text)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_STORAGE             memory|sqlite|redis (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_DB_PATH             SQLite database path (default: ./data/unievent.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_REDIS_URL           Redis URL (required for the redis backend)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_KEY_PREFIX          Redis key prefix (default: unievent:)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_MIGRATION_SCHEDULE  Cron schedule of the past-event pass (default: @daily)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UNIEVENT_FLUSH_TIMEOUT       Shutdown wait for queued writes (default: 5s)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("unievent %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Level was validated by config.Load
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stdout, level, cfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("starting unievent", append(info.LogAttrs(), "env", cfg.Env)...)

	switch cfg.Storage {
	case kv.BackendRedis:
		logger.Info("opening store", "backend", cfg.Storage, "url", kv.SanitizeRedisURL(cfg.RedisURL))
	case kv.BackendSQLite:
		logger.Info("opening store", "backend", cfg.Storage, "path", cfg.DBPath)
	default:
		logger.Info("opening store", "backend", cfg.Storage)
	}

	store, err := kv.New(cfg.KVConfig())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "error", err)
		}
	}()

	a := app.New(store, logger)

	ctx := context.Background()
	if err := a.Start(ctx); err != nil {
		// Stores that failed to load keep their defaults
		logger.Warn("store load incomplete, continuing with defaults", "error", err)
	}

	sched := scheduler.New(a.Catalog, cfg.MigrationSchedule, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	s := a.Summary()
	logger.Info("unievent ready",
		"signed_in", s.SignedIn,
		"user", s.UserEmail,
		"events", s.Events,
		"registered", s.Registered,
		"completed", s.Completed,
		"dark_mode", s.DarkMode,
		"next_migration", sched.NextRun(),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	sched.Stop()

	// Drain queued writes before the store closes
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.FlushTimeout)
	defer cancel()

	if err := a.Close(shutdownCtx); err != nil {
		return fmt.Errorf("flushing writes: %w", err)
	}

	logger.Info("unievent stopped")
	return nil
}
