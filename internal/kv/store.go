// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kv provides the durable string-keyed storage every UniEvent store
// persists through, with in-memory, SQLite and Redis backends.
package kv

import "context"

// Store is a durable string-keyed storage.
// All implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores all entries in a single atomic write.
	// Either every entry is stored or none is.
	SetMany(ctx context.Context, entries map[string]string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Error represents an error type for store operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the key is not present in the store.
	ErrNotFound Error = "key not found"

	// ErrClosed indicates the store has been closed.
	ErrClosed Error = "store closed"
)
