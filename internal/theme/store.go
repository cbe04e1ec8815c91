// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme stores the dark-mode preference and derives the color theme
// from it.
package theme

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/logging"
)

// KeyDarkMode is the storage key of the dark-mode flag.
const KeyDarkMode = "@dark_mode"

// Store holds the dark-mode preference.
type Store struct {
	kv     kv.Store
	logger *slog.Logger

	mu   sync.RWMutex
	dark bool
}

// New creates a preference store in light mode.
func New(store kv.Store, logger *slog.Logger) *Store {
	return &Store{
		kv:     store,
		logger: logger.With(logging.StoreAttr(logging.CategoryTheme)),
	}
}

// Load restores the persisted flag. A missing flag keeps light mode.
func (s *Store) Load(ctx context.Context) error {
	dark, found, err := kv.GetJSON[bool](ctx, s.kv, KeyDarkMode)
	if err != nil {
		s.logger.Error("failed to load theme", "error", err)
		return err
	}
	if found {
		s.mu.Lock()
		s.dark = dark
		s.mu.Unlock()
	}
	return nil
}

// IsDarkMode reports the current mode.
func (s *Store) IsDarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// Theme returns the theme for the current mode.
func (s *Store) Theme() Theme {
	return For(s.IsDarkMode())
}

// ToggleTheme flips the mode and persists it. The in-memory mode changes
// even when the write fails.
func (s *Store) ToggleTheme(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dark = !s.dark
	return s.persistLocked(ctx)
}

// ResetTheme switches back to light mode and persists it.
func (s *Store) ResetTheme(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dark = false
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := kv.SetJSON(ctx, s.kv, KeyDarkMode, s.dark); err != nil {
		s.logger.Error("failed to save theme", "dark", s.dark, "error", err)
		return fmt.Errorf("saving theme: %w", err)
	}
	s.logger.Debug("theme saved", "dark", s.dark)
	return nil
}
