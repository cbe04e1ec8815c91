// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/unievent/internal/catalog"
	"github.com/olegiv/unievent/internal/form"
	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/model"
	"github.com/olegiv/unievent/internal/testutil"
)

func newTestApp(t *testing.T, store kv.Store) *App {
	t.Helper()
	n := 0
	a := New(store, testutil.TestLoggerSilent(),
		WithClock(testutil.FixedClock(t, "2026-10-16")),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id_%d", n)
		}),
	)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	require.NoError(t, a.Start(context.Background()))
	return a
}

func eventInput(title string) form.EventInput {
	return form.EventInput{
		Title:       title,
		Date:        "2026-11-01",
		Start:       time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		End:         time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC),
		Location:    "Hall A",
		Description: "Details",
		Type:        "Workshop",
	}
}

func signInAdmin(t *testing.T, a *App) {
	t.Helper()
	res := a.SignIn(context.Background(), "Admin@VAU.ac.lk", "Admin123")
	require.True(t, res.Success, res.Message)
}

func TestStart_Summary(t *testing.T) {
	a := newTestApp(t, kv.NewMemoryStore())

	s := a.Summary()
	assert.False(t, s.SignedIn)
	assert.Equal(t, len(catalog.DefaultEvents()), s.Events)
	assert.Zero(t, s.Registered)
	assert.False(t, s.DarkMode)
	assert.False(t, a.Session.Loading())
}

func TestSignUp_Validation(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, kv.NewMemoryStore())

	res := a.SignUp(ctx, "A", "a@gmail.com", "Abcdefg1")
	assert.True(t, res.Is(model.ErrInvalidInput))
	assert.Equal(t, form.MsgUniversityEmail, res.Message)

	res = a.SignUp(ctx, " A ", " a@vau.ac.lk ", "Abcdefg1")
	require.True(t, res.Success, res.Message)

	user, ok := a.Session.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "a@vau.ac.lk", user.Email)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, "id_1", user.ID)

	res = a.SignUp(ctx, "A", "a@vau.ac.lk", "Abcdefg1")
	assert.True(t, res.Is(model.ErrDuplicateEmail))
}

func TestSignIn_Validation(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, kv.NewMemoryStore())

	res := a.SignIn(ctx, "admin@vau.ac.lk", "short")
	assert.True(t, res.Is(model.ErrInvalidInput))
	assert.Equal(t, form.MsgPasswordPolicy, res.Message)

	res = a.SignIn(ctx, "admin@vau.ac.lk", "Admin999")
	assert.True(t, res.Is(model.ErrInvalidCredential))

	signInAdmin(t, a)
	assert.True(t, a.Summary().SignedIn)
	assert.Equal(t, model.RoleAdmin, a.Summary().Role)
}

func TestAdminIntents(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	a := newTestApp(t, store)
	signInAdmin(t, a)

	res := a.PostEvent(ctx, eventInput("Go Meetup"))
	require.True(t, res.Success, res.Message)
	assert.Equal(t, MsgEventAdded, res.Message)

	events := a.Catalog.Events()
	assert.Equal(t, "Go Meetup", events[0].Title)
	id := events[0].ID

	in, res := a.EventForm(id)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Go Meetup", in.Title)
	assert.Equal(t, 10, in.Start.Hour())
	assert.Equal(t, 12, in.End.Hour())

	in.Location = "Hall B"
	res = a.EditEvent(ctx, id, in)
	require.True(t, res.Success, res.Message)
	ev, _ := a.Catalog.Event(id)
	assert.Equal(t, "Hall B", ev.Location)

	res = a.EditEvent(ctx, id, in)
	assert.True(t, res.Is(model.ErrInvalidInput))
	assert.Equal(t, MsgNoChanges, res.Message)

	res = a.EditEvent(ctx, "missing", in)
	assert.True(t, res.Is(model.ErrNotFound))
	_, res = a.EventForm("missing")
	assert.True(t, res.Is(model.ErrNotFound))

	past := eventInput("Old")
	past.Date = "2026-10-01"
	res = a.PostEvent(ctx, past)
	assert.Equal(t, form.MsgPastDate, res.Message)

	require.True(t, a.RemoveEvent(ctx, id).Success)
	_, ok := a.Catalog.Event(id)
	assert.False(t, ok)

	res = a.SyncCatalog(ctx)
	require.True(t, res.Success)
	assert.Equal(t, catalog.DefaultEvents(), a.Catalog.Events())

	// Admins do not join events.
	res = a.JoinEvent(ctx, catalog.DefaultEvents()[0].ID)
	assert.True(t, res.Is(model.ErrForbidden))
}

func TestStudentIntents(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, kv.NewMemoryStore())
	require.True(t, a.SignUp(ctx, "A", "a@vau.ac.lk", "Abcdefg1").Success)

	for _, res := range []model.Result{
		a.PostEvent(ctx, eventInput("Nope")),
		a.EditEvent(ctx, "1", eventInput("Nope")),
		a.RemoveEvent(ctx, "1"),
		a.SyncCatalog(ctx),
	} {
		assert.True(t, res.Is(model.ErrForbidden))
		assert.Equal(t, MsgAdminOnly, res.Message)
	}
	_, res := a.EventForm("1")
	assert.True(t, res.Is(model.ErrForbidden))

	id := catalog.DefaultEvents()[0].ID
	res = a.JoinEvent(ctx, id)
	require.True(t, res.Success)
	assert.Equal(t, catalog.MsgRegistered, res.Message)

	res = a.JoinEvent(ctx, id)
	assert.True(t, res.Is(model.ErrAlreadyRegistered))

	assert.Equal(t, ProfileStats{Registered: 1}, a.ProfileStats())

	res = a.JoinEvent(ctx, "missing")
	assert.True(t, res.Is(model.ErrNotFound))

	require.True(t, a.LeaveEvent(ctx, id).Success)
	assert.Equal(t, ProfileStats{}, a.ProfileStats())
}

func TestIntentsRequireSession(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, kv.NewMemoryStore())

	for _, res := range []model.Result{
		a.PostEvent(ctx, eventInput("x")),
		a.JoinEvent(ctx, "1"),
		a.LeaveEvent(ctx, "1"),
		a.SaveProfile(ctx, "A", "a@vau.ac.lk", ""),
	} {
		assert.True(t, res.Is(model.ErrNoSession))
	}
}

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, kv.NewMemoryStore())
	require.True(t, a.SignUp(ctx, "A", "a@vau.ac.lk", "Abcdefg1").Success)

	res := a.SaveProfile(ctx, "", "a@vau.ac.lk", "")
	assert.Equal(t, form.MsgProfileRequired, res.Message)

	res = a.SaveProfile(ctx, "New Name", "a@vau.ac.lk", "https://example.com/me.png")
	require.True(t, res.Success)
	assert.Equal(t, MsgProfileUpdated, res.Message)

	user, _ := a.Session.CurrentUser()
	assert.Equal(t, "New Name", user.Name)
	require.NotNil(t, user.Image)

	res = a.SaveProfile(ctx, "New Name", "a@vau.ac.lk", " ")
	require.True(t, res.Success)
	user, _ = a.Session.CurrentUser()
	assert.Nil(t, user.Image)

	users, err := a.Session.Registry(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.Email == "a@vau.ac.lk" {
			assert.Nil(t, u.Image)
		}
	}

	res = a.SaveProfile(ctx, "New Name", model.AdminEmail, "")
	assert.True(t, res.Is(model.ErrDuplicateEmail))
}

func TestThemeIntents(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, kv.NewMemoryStore())

	require.True(t, a.ToggleTheme(ctx).Success)
	assert.True(t, a.Summary().DarkMode)

	res := a.ResetTheme(ctx)
	require.True(t, res.Success)
	assert.Equal(t, MsgThemeReset, res.Message)
	assert.False(t, a.Theme.IsDarkMode())
}

func TestThemeIntent_Failure(t *testing.T) {
	faulty := testutil.NewFaultyStore(kv.NewMemoryStore())
	a := newTestApp(t, faulty)

	faulty.FailWrites(true)
	res := a.ToggleTheme(context.Background())
	assert.True(t, res.Is(model.ErrPersistence))
}

func TestStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := testutil.TestStore(t)

	a := newTestApp(t, store)
	require.True(t, a.SignUp(ctx, "A", "a@vau.ac.lk", "Abcdefg1").Success)
	id := catalog.DefaultEvents()[1].ID
	require.True(t, a.JoinEvent(ctx, id).Success)
	require.True(t, a.ToggleTheme(ctx).Success)
	require.NoError(t, a.Close(ctx))

	b := newTestApp(t, store)
	s := b.Summary()
	assert.True(t, s.SignedIn)
	assert.Equal(t, "a@vau.ac.lk", s.UserEmail)
	assert.Equal(t, 1, s.Registered)
	assert.True(t, s.DarkMode)
	assert.True(t, b.Catalog.IsRegistered(id))
}
