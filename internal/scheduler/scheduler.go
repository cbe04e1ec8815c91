// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic migration pass that moves past event
// registrations into the completed history.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the migration pass once a day at midnight UTC, when
// the catalog's date rolls over.
const DefaultSchedule = "@daily"

// runTimeout bounds a single migration pass.
const runTimeout = 30 * time.Second

// Migrator moves past registrations and reports how many moved.
type Migrator interface {
	MigratePast(ctx context.Context) (int, error)
}

// Scheduler handles the scheduled migration pass.
type Scheduler struct {
	migrator Migrator
	schedule string
	cron     *cron.Cron
	entryID  cron.EntryID
	logger   *slog.Logger
}

// New creates a new scheduler instance. An empty schedule uses DefaultSchedule.
func New(migrator Migrator, schedule string, logger *slog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		migrator: migrator,
		schedule: schedule,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		logger:   logger,
	}
}

// Start registers the migration job and starts the cron runner.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunNow(context.Background()); err != nil {
			s.logger.Error("scheduled migration failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling migration %q: %w", s.schedule, err)
	}
	s.entryID = id

	s.cron.Start()
	s.logger.Info("scheduler started",
		"schedule", s.schedule,
		"next_run", s.NextRun().Format(time.RFC3339),
	)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running pass.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// NextRun returns when the migration job runs next, or the zero time if
// the scheduler has not been started.
func (s *Scheduler) NextRun() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunNow runs the migration pass immediately.
func (s *Scheduler) RunNow(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	moved, err := s.migrator.MigratePast(ctx)
	if err != nil {
		return moved, err
	}
	if moved > 0 {
		s.logger.Info("migration pass completed", "moved", moved)
	}
	return moved, nil
}
