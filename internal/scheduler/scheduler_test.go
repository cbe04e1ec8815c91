// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type fakeMigrator struct {
	calls atomic.Int32
	moved int
	err   error
}

func (m *fakeMigrator) MigratePast(ctx context.Context) (int, error) {
	m.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return m.moved, m.err
}

func TestNew(t *testing.T) {
	logger := slog.Default()

	s := New(&fakeMigrator{}, "", logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
	if s.schedule != DefaultSchedule {
		t.Errorf("schedule = %q, want %q", s.schedule, DefaultSchedule)
	}
	if !s.NextRun().IsZero() {
		t.Error("NextRun() before Start should be zero")
	}
}

func TestScheduler_DailyRunsAtUTCMidnight(t *testing.T) {
	s := New(&fakeMigrator{}, DefaultSchedule, slog.Default())
	if got := s.cron.Location(); got != time.UTC {
		t.Errorf("cron location = %v, want UTC", got)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	next := s.NextRun().UTC()
	if next.Hour() != 0 || next.Minute() != 0 {
		t.Errorf("NextRun() = %v, want midnight UTC", next)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(&fakeMigrator{}, "@hourly", slog.Default())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	next := s.NextRun()
	if next.IsZero() || next.After(time.Now().Add(time.Hour+time.Minute)) {
		t.Errorf("NextRun() = %v, want within the next hour", next)
	}

	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(&fakeMigrator{}, "not a schedule", slog.Default())
	if err := s.Start(); err == nil {
		t.Error("Start() error = nil, want error for invalid schedule")
	}
}

func TestScheduler_RunNow(t *testing.T) {
	m := &fakeMigrator{moved: 2}
	s := New(m, "", slog.Default())

	moved, err := s.RunNow(context.Background())
	if err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if moved != 2 {
		t.Errorf("RunNow() moved = %d, want 2", moved)
	}
	if m.calls.Load() != 1 {
		t.Errorf("MigratePast called %d times, want 1", m.calls.Load())
	}
}

func TestScheduler_RunNowError(t *testing.T) {
	wantErr := errors.New("boom")
	s := New(&fakeMigrator{err: wantErr}, "", slog.Default())

	if _, err := s.RunNow(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("RunNow() error = %v, want %v", err, wantErr)
	}
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	m := &fakeMigrator{}
	s := New(m, "@every 1s", slog.Default())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for m.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()

	if m.calls.Load() == 0 {
		t.Error("migration job did not run")
	}
}
