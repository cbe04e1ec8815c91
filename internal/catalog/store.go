// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog owns the event catalog together with the current user's
// registered and completed events.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/logging"
	"github.com/olegiv/unievent/internal/model"
)

// Storage keys owned by the catalog store.
const (
	KeyEvents           = "@events"
	KeyRegisteredEvents = "@registered_events"
	KeyCompletedEvents  = "@completed_events"
)

// Messages reported in results.
const (
	MsgAlreadyRegistered = "Already registered!"
	MsgRegistered        = "Successfully registered!"
	MsgRegisterFailed    = "Registration failed"
	MsgUnregistered      = "Removed from your events"
	MsgUnregisterFailed  = "Failed to remove"
	MsgReset             = "App reset to default data"
	MsgResetFailed       = "Reset failed"
	MsgEventNotFound     = "Event not found"
	MsgSaveFailed        = "Failed to save event"
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to decide which registrations are past.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithDefaults replaces the bundled catalog used on first run and on reset.
func WithDefaults(events []model.Event) Option {
	return func(s *Store) {
		s.defaults = model.CloneEvents(events)
	}
}

// Store holds the catalog state in memory and persists it through a
// write-behind queue. Writes are applied in the order the in-memory
// mutations happened. Awaited operations report only their own write.
type Store struct {
	writer   *kv.Writer
	kv       kv.Store
	logger   *slog.Logger
	now      func() time.Time
	defaults []model.Event

	mu         sync.RWMutex
	events     []model.Event
	registered []model.Event
	completed  []model.Event
}

// New creates a catalog store seeded with the bundled catalog. Call Load to
// read the persisted state.
func New(store kv.Store, logger *slog.Logger, opts ...Option) *Store {
	logger = logger.With(logging.StoreAttr(logging.CategoryCatalog))
	s := &Store{
		kv:       store,
		writer:   kv.NewWriter(store, logger),
		logger:   logger,
		now:      time.Now,
		defaults: DefaultEvents(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = model.CloneEvents(s.defaults)
	s.registered = []model.Event{}
	s.completed = []model.Event{}
	return s
}

// Load reads the persisted collections, falling back to the bundled catalog
// and empty registrations, then runs the migration pass.
func (s *Store) Load(ctx context.Context) error {
	events, found, err := kv.GetJSON[[]model.Event](ctx, s.kv, KeyEvents)
	if err != nil {
		s.logger.Error("failed to load events", "error", err)
		return err
	}
	if !found {
		events = model.CloneEvents(s.defaults)
	}

	registered, _, err := kv.GetJSON[[]model.Event](ctx, s.kv, KeyRegisteredEvents)
	if err != nil {
		s.logger.Error("failed to load registered events", "error", err)
		return err
	}

	completed, _, err := kv.GetJSON[[]model.Event](ctx, s.kv, KeyCompletedEvents)
	if err != nil {
		s.logger.Error("failed to load completed events", "error", err)
		return err
	}

	s.mu.Lock()
	s.events = nonNil(events)
	s.registered = nonNil(registered)
	s.completed = nonNil(completed)
	s.mu.Unlock()

	s.logger.Info("events loaded",
		"events", len(events),
		"registered", len(registered),
		"completed", len(completed),
	)

	_, err = s.MigratePast(ctx)
	return err
}

// MigratePast moves registrations dated before today into the completed
// history, skipping ids already there. Both collections are persisted only
// when a registration was moved. It returns the number moved.
func (s *Store) MigratePast(ctx context.Context) (int, error) {
	today := s.now().UTC().Format(model.DateLayout)

	s.mu.Lock()
	active := make([]model.Event, 0, len(s.registered))
	moved := 0
	for _, ev := range s.registered {
		if ev.Date >= today {
			active = append(active, ev)
			continue
		}
		moved++
		if !containsID(s.completed, ev.ID) {
			s.completed = append(s.completed, ev)
		}
	}
	if moved == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.registered = active
	result, err := s.submitLocked(KeyRegisteredEvents, KeyCompletedEvents)
	s.mu.Unlock()

	if err := s.await(ctx, result, err); err != nil {
		s.logger.Error("failed to persist completed events", "error", err)
		return moved, fmt.Errorf("persisting migrated events: %w", err)
	}

	s.logger.Info("moved past events to completed", "count", moved, "today", today)
	return moved, nil
}

// AddEvent prepends ev to the catalog. The write is queued, not awaited.
func (s *Store) AddEvent(ev model.Event) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = slices.Insert(s.events, 0, ev.Clone())
	if err := s.enqueueLocked(KeyEvents); err != nil {
		s.logger.Error("failed to save event", "event_id", ev.ID, "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgSaveFailed)
	}

	s.logger.Info("event added", "event_id", ev.ID)
	return model.OK("")
}

// DeleteEvent removes the event from the catalog and from the registrations.
// The completed history keeps its copy. The write is queued, not awaited.
func (s *Store) DeleteEvent(id string) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := func(ev model.Event) bool { return ev.ID == id }
	if !slices.ContainsFunc(s.events, byID) && !slices.ContainsFunc(s.registered, byID) {
		return model.Fail(model.ErrNotFound, MsgEventNotFound)
	}

	s.events = slices.DeleteFunc(s.events, byID)
	s.registered = slices.DeleteFunc(s.registered, byID)
	if err := s.enqueueLocked(KeyEvents, KeyRegisteredEvents); err != nil {
		s.logger.Error("failed to delete event", "event_id", id, "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgSaveFailed)
	}

	s.logger.Info("event deleted", "event_id", id)
	return model.OK("")
}

// UpdateEvent merges patch into the catalog entry and any registered copy.
// The write is queued, not awaited.
func (s *Store) UpdateEvent(id string, patch model.EventPatch) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := 0
	for _, list := range [][]model.Event{s.events, s.registered} {
		for i := range list {
			if list[i].ID == id {
				list[i] = patch.Apply(list[i])
				matched++
			}
		}
	}
	if matched == 0 {
		return model.Fail(model.ErrNotFound, MsgEventNotFound)
	}

	if err := s.enqueueLocked(KeyEvents, KeyRegisteredEvents); err != nil {
		s.logger.Error("failed to update event", "event_id", id, "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgSaveFailed)
	}

	s.logger.Info("event updated", "event_id", id)
	return model.OK("")
}

// RegisterForEvent adds ev to the registrations and waits for the write.
func (s *Store) RegisterForEvent(ctx context.Context, ev model.Event) model.Result {
	s.mu.Lock()
	if containsID(s.registered, ev.ID) {
		s.mu.Unlock()
		return model.Fail(model.ErrAlreadyRegistered, MsgAlreadyRegistered)
	}
	s.registered = slices.Insert(s.registered, 0, ev.Clone())
	result, err := s.submitLocked(KeyRegisteredEvents)
	s.mu.Unlock()

	if err := s.await(ctx, result, err); err != nil {
		s.logger.Error("failed to register for event", "event_id", ev.ID, "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgRegisterFailed)
	}

	s.logger.Info("registered for event", "event_id", ev.ID)
	return model.OK(MsgRegistered)
}

// UnregisterFromEvent removes the registration with id and waits for the
// write. Removing an id that is not registered still succeeds.
func (s *Store) UnregisterFromEvent(ctx context.Context, id string) model.Result {
	s.mu.Lock()
	s.registered = slices.DeleteFunc(s.registered, func(ev model.Event) bool { return ev.ID == id })
	result, err := s.submitLocked(KeyRegisteredEvents)
	s.mu.Unlock()

	if err := s.await(ctx, result, err); err != nil {
		s.logger.Error("failed to unregister", "event_id", id, "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgUnregisterFailed)
	}

	s.logger.Info("unregistered from event", "event_id", id)
	return model.OK(MsgUnregistered)
}

// ResetEvents restores the bundled catalog and clears both the registrations
// and the completed history.
func (s *Store) ResetEvents(ctx context.Context) model.Result {
	s.mu.Lock()
	s.events = model.CloneEvents(s.defaults)
	s.registered = []model.Event{}
	s.completed = []model.Event{}
	result, err := s.submitLocked(KeyEvents, KeyRegisteredEvents, KeyCompletedEvents)
	s.mu.Unlock()

	if err := s.await(ctx, result, err); err != nil {
		s.logger.Error("failed to reset events", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgResetFailed)
	}

	s.logger.Info("events reset to defaults", "events", len(s.defaults))
	return model.OK(MsgReset)
}

// Events returns a copy of the catalog, newest added first.
func (s *Store) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneEvents(s.events)
}

// Event returns a copy of the catalog entry with id.
func (s *Store) Event(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := slices.IndexFunc(s.events, func(ev model.Event) bool { return ev.ID == id })
	if idx < 0 {
		return model.Event{}, false
	}
	return s.events[idx].Clone(), true
}

// RegisteredEvents returns a copy of the current registrations.
func (s *Store) RegisteredEvents() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneEvents(s.registered)
}

// CompletedEvents returns a copy of the completed history.
func (s *Store) CompletedEvents() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneEvents(s.completed)
}

// IsRegistered reports whether an event with id is registered.
func (s *Store) IsRegistered(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.registered, id)
}

// Flush waits until every queued write has been applied.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close drains the write queue. The underlying kv store is left open.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

// enqueueLocked queues the current value of keys as one write whose
// failure is only logged. Must be called with s.mu held.
func (s *Store) enqueueLocked(keys ...string) error {
	entries, err := s.entriesLocked(keys)
	if err != nil {
		return err
	}
	return s.writer.EnqueueMany(entries)
}

// submitLocked queues the current value of keys as one write and returns
// the channel its result arrives on. Must be called with s.mu held.
func (s *Store) submitLocked(keys ...string) (<-chan error, error) {
	entries, err := s.entriesLocked(keys)
	if err != nil {
		return nil, err
	}
	return s.writer.Submit(entries)
}

func (s *Store) entriesLocked(keys []string) (map[string]string, error) {
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		switch key {
		case KeyEvents:
			values[key] = s.events
		case KeyRegisteredEvents:
			values[key] = s.registered
		case KeyCompletedEvents:
			values[key] = s.completed
		}
	}
	return kv.Entries(values)
}

// await waits for a submitted write unless submitting already failed.
func (s *Store) await(ctx context.Context, result <-chan error, submitErr error) error {
	if submitErr != nil {
		return submitErr
	}
	return kv.Await(ctx, result)
}

func containsID(events []model.Event, id string) bool {
	return slices.ContainsFunc(events, func(ev model.Event) bool { return ev.ID == id })
}

func nonNil(events []model.Event) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	return events
}
