// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the UniEvent project.
package testutil

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/unievent/internal/kv"
)

// ErrInjected is returned by FaultyStore for operations set to fail.
var ErrInjected = errors.New("injected storage failure")

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError + 4,
	}))
}

// TestStore opens a SQLite-backed kv store in a temporary directory.
// The store is closed when the test finishes.
func TestStore(t *testing.T) *kv.SQLiteStore {
	t.Helper()

	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "unievent-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// FixedClock returns a clock that always reports noon UTC on date (YYYY-MM-DD).
func FixedClock(t *testing.T, date string) func() time.Time {
	t.Helper()

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("parsing clock date %q: %v", date, err)
	}
	now := day.Add(12 * time.Hour)
	return func() time.Time { return now }
}

// FaultyStore wraps a kv.Store and fails selected operations with ErrInjected.
type FaultyStore struct {
	kv.Store

	mu         sync.Mutex
	failReads  bool
	failWrites bool
	writes     int
}

// NewFaultyStore wraps store. No operation fails until configured.
func NewFaultyStore(store kv.Store) *FaultyStore {
	return &FaultyStore{Store: store}
}

// FailReads makes Get fail.
func (s *FaultyStore) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

// FailWrites makes Set, SetMany and Remove fail.
func (s *FaultyStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Writes returns the number of successful Set, SetMany and Remove calls.
func (s *FaultyStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Get fails with ErrInjected when reads are set to fail.
func (s *FaultyStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()
	if fail {
		return "", ErrInjected
	}
	return s.Store.Get(ctx, key)
}

// Set fails with ErrInjected when writes are set to fail.
func (s *FaultyStore) Set(ctx context.Context, key, value string) error {
	return s.write(func() error { return s.Store.Set(ctx, key, value) })
}

// SetMany fails with ErrInjected when writes are set to fail.
func (s *FaultyStore) SetMany(ctx context.Context, entries map[string]string) error {
	return s.write(func() error { return s.Store.SetMany(ctx, entries) })
}

// Remove fails with ErrInjected when writes are set to fail.
func (s *FaultyStore) Remove(ctx context.Context, key string) error {
	return s.write(func() error { return s.Store.Remove(ctx, key) })
}

func (s *FaultyStore) write(op func() error) error {
	s.mu.Lock()
	fail := s.failWrites
	s.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := op(); err != nil {
		return err
	}
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// Ensure FaultyStore implements kv.Store.
var _ kv.Store = (*FaultyStore)(nil)
