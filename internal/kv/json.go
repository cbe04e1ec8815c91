// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// GetJSON loads and decodes the JSON value stored under key.
// found is false (with a nil error) when the key is absent.
func GetJSON[T any](ctx context.Context, s Store, key string) (value T, found bool, err error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return value, false, nil
		}
		return value, false, err
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return value, true, nil
}

// SetJSON encodes value as JSON and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := EncodeJSON(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// EncodeJSON returns the JSON encoding of value as a string.
func EncodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Entries builds a SetMany argument by JSON-encoding each value.
func Entries(values map[string]any) (map[string]string, error) {
	entries := make(map[string]string, len(values))
	for key, value := range values {
		raw, err := EncodeJSON(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		entries[key] = raw
	}
	return entries, nil
}
