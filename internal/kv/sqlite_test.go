// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	return s, path
}

func TestSQLiteStore_Contract(t *testing.T) {
	s, _ := openTestSQLite(t)
	testStoreContract(t, s)
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	s, path := openTestSQLite(t)

	require.NoError(t, s.SetMany(ctx, map[string]string{
		"@user":      `{"id":"admin_1"}`,
		"@all_users": `[{"id":"admin_1"}]`,
	}))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "@all_users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"admin_1"}]`, got)
}

func TestSQLiteStore_SetManyRollsBack(t *testing.T) {
	s, _ := openTestSQLite(t)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "@events", "[]"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	err := s.SetMany(cancelled, map[string]string{
		"@events":            `[{"id":"x"}]`,
		"@registered_events": `[{"id":"x"}]`,
	})
	require.Error(t, err)

	got, err := s.Get(ctx, "@events")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	_, err = s.Get(ctx, "@registered_events")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Migrated(t *testing.T) {
	s, _ := openTestSQLite(t)
	defer func() { _ = s.Close() }()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
