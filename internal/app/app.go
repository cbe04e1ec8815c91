// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package app is the composition root of the UniEvent data layer. It owns
// the session, catalog and preference stores and exposes the intents the
// screens call, checking form input and roles before reaching the stores.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/unievent/internal/catalog"
	"github.com/olegiv/unievent/internal/form"
	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/model"
	"github.com/olegiv/unievent/internal/session"
	"github.com/olegiv/unievent/internal/theme"
)

// Messages reported by the app intents.
const (
	MsgEventAdded     = "Event added successfully!"
	MsgEventUpdated   = "Event updated successfully!"
	MsgEventDeleted   = "Event deleted"
	MsgNoChanges      = "No changes to save."
	MsgProfileUpdated = "Profile updated successfully!"
	MsgThemeReset     = "Theme reset to defaults."
	MsgThemeFailed    = "Failed to save theme"
	MsgAdminOnly      = "Only Admins can manage events."
	MsgStudentOnly    = "Only students can join events."
	MsgSignInRequired = "Please sign in first."
	MsgEventNotFound  = "Event not found"
)

// Option configures an App.
type Option func(*options)

type options struct {
	now      func() time.Time
	newID    func() string
	defaults []model.Event
}

// WithClock sets the clock used for past-date checks and the migration pass.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator sets the generator for new account and event ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// WithDefaults replaces the bundled event catalog.
func WithDefaults(events []model.Event) Option {
	return func(o *options) {
		o.defaults = events
	}
}

// App wires the stores to one kv.Store.
type App struct {
	Session *session.Store
	Catalog *catalog.Store
	Theme   *theme.Store

	forms  *form.Validator
	logger *slog.Logger
	newID  func() string
}

// Summary describes the loaded state.
type Summary struct {
	SignedIn   bool
	UserEmail  string
	Role       string
	Events     int
	Registered int
	Completed  int
	DarkMode   bool
}

// ProfileStats are the counters shown on the profile screen.
type ProfileStats struct {
	Registered int `json:"registered"`
	Completed  int `json:"completed"`
}

// New creates the stores on top of store. Call Start before use.
func New(store kv.Store, logger *slog.Logger, opts ...Option) *App {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	catalogOpts := []catalog.Option{catalog.WithClock(o.now)}
	if o.defaults != nil {
		catalogOpts = append(catalogOpts, catalog.WithDefaults(o.defaults))
	}

	return &App{
		Session: session.New(store, logger, session.WithIDGenerator(o.newID)),
		Catalog: catalog.New(store, logger, catalogOpts...),
		Theme:   theme.New(store, logger),
		forms:   form.New(form.WithClock(o.now)),
		logger:  logger,
		newID:   o.newID,
	}
}

// Start loads every store. A store that fails to load keeps its defaults;
// the joined errors are returned.
func (a *App) Start(ctx context.Context) error {
	return errors.Join(
		a.Session.Init(ctx),
		a.Catalog.Load(ctx),
		a.Theme.Load(ctx),
	)
}

// Flush waits for queued catalog writes.
func (a *App) Flush(ctx context.Context) error {
	return a.Catalog.Flush(ctx)
}

// Close drains queued catalog writes. The kv store stays open.
func (a *App) Close(ctx context.Context) error {
	return a.Catalog.Close(ctx)
}

// Summary reports the loaded state.
func (a *App) Summary() Summary {
	s := Summary{
		Events:     len(a.Catalog.Events()),
		Registered: len(a.Catalog.RegisteredEvents()),
		Completed:  len(a.Catalog.CompletedEvents()),
		DarkMode:   a.Theme.IsDarkMode(),
	}
	if user, ok := a.Session.CurrentUser(); ok {
		s.SignedIn = true
		s.UserEmail = user.Email
		s.Role = user.Role
	}
	return s
}

// ProfileStats counts the signed-in user's registered and completed events.
func (a *App) ProfileStats() ProfileStats {
	return ProfileStats{
		Registered: len(a.Catalog.RegisteredEvents()),
		Completed:  len(a.Catalog.CompletedEvents()),
	}
}

// invalid turns a form error into a failed result.
func invalid(err error) model.Result {
	return model.Fail(err, err.Error())
}
