// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the process logger. Records are written as text or
// JSON and tagged with the category of the store that produced them.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log categories.
const (
	CategorySession = "session"
	CategoryCatalog = "catalog"
	CategoryTheme   = "theme"
	CategoryStorage = "storage"
	CategorySystem  = "system"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to w at the given level and format.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if format == FormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}

	return slog.New(NewCategoryHandler(inner))
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// StoreAttr tags a logger with the category of the owning store.
func StoreAttr(category string) slog.Attr {
	return slog.String("category", category)
}

// CategoryHandler is a slog.Handler that wraps another handler and adds a
// "category" attribute to records that lack one.
type CategoryHandler struct {
	inner       slog.Handler
	hasCategory bool
}

// NewCategoryHandler creates a CategoryHandler wrapping inner.
func NewCategoryHandler(inner slog.Handler) *CategoryHandler {
	return &CategoryHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *CategoryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *CategoryHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.hasCategory && !recordHasCategory(r) {
		r = r.Clone()
		r.AddAttrs(slog.String("category", inferCategory(r.Message)))
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *CategoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	has := h.hasCategory
	for _, a := range attrs {
		if a.Key == "category" {
			has = true
		}
	}
	return &CategoryHandler{
		inner:       h.inner.WithAttrs(attrs),
		hasCategory: has,
	}
}

// WithGroup implements slog.Handler.
func (h *CategoryHandler) WithGroup(name string) slog.Handler {
	return &CategoryHandler{
		inner:       h.inner.WithGroup(name),
		hasCategory: h.hasCategory,
	}
}

func recordHasCategory(r slog.Record) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			found = true
			return false // Stop iteration
		}
		return true
	})
	return found
}

// inferCategory guesses a category from the message text.
func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "user") || strings.Contains(msg, "regist"):
		return CategorySession
	case strings.Contains(msg, "event"):
		return CategoryCatalog
	case strings.Contains(msg, "theme") || strings.Contains(msg, "dark mode"):
		return CategoryTheme
	case strings.Contains(msg, "store") || strings.Contains(msg, "write") || strings.Contains(msg, "database"):
		return CategoryStorage
	default:
		return CategorySystem
	}
}
