// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session owns the signed-in user and the registry of all accounts.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/olegiv/unievent/internal/kv"
	"github.com/olegiv/unievent/internal/logging"
	"github.com/olegiv/unievent/internal/model"
)

// Storage keys owned by the session store.
const (
	KeyUser     = "@user"
	KeyAllUsers = "@all_users"
)

// Messages reported in failed results.
const (
	MsgNoAccount      = "No account found with this email. Please sign up."
	MsgWrongPassword  = "Incorrect password."
	MsgDuplicateEmail = "An account with this email already exists."
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
	MsgUpdateFailed   = "Failed to update profile"
	MsgLogoutFailed   = "Logout failed"
	MsgNotSignedIn    = "Please sign in first."
)

// DefaultAdmin returns the account seeded when the registry has no admin.
func DefaultAdmin() model.User {
	return model.User{
		ID:       "admin_1",
		Name:     "System Admin",
		Email:    model.AdminEmail,
		Password: "Admin123",
		Role:     model.RoleAdmin,
	}
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the generator used for new account ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store manages the current session and the account registry.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
	newID  func() string

	// opMu serializes operations; mu guards the in-memory state.
	opMu    sync.Mutex
	mu      sync.RWMutex
	current *model.User
	loading bool
}

// New creates a session store. It reports Loading until Init completes.
func New(store kv.Store, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		kv:      store,
		logger:  logger.With(logging.StoreAttr(logging.CategorySession)),
		newID:   uuid.NewString,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init seeds the default admin if the registry lacks one and restores the
// persisted session. Loading is false afterwards whether or not it failed.
func (s *Store) Init(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	users, err := s.registry(ctx)
	if err != nil {
		s.logger.Error("failed to load user registry", "error", err)
		return err
	}

	hasAdmin := slices.ContainsFunc(users, func(u model.User) bool {
		return model.SameEmail(u.Email, model.AdminEmail)
	})
	if !hasAdmin {
		users = append(users, DefaultAdmin())
		if err := kv.SetJSON(ctx, s.kv, KeyAllUsers, users); err != nil {
			s.logger.Error("failed to seed default admin", "error", err)
			return fmt.Errorf("seeding default admin: %w", err)
		}
		s.logger.Info("seeded default admin account", "email", model.AdminEmail)
	}

	user, found, err := kv.GetJSON[model.User](ctx, s.kv, KeyUser)
	if err != nil {
		s.logger.Error("failed to restore session", "error", err)
		return fmt.Errorf("restoring session: %w", err)
	}
	if found {
		s.setCurrent(&user)
		s.logger.Debug("session restored", "user_id", user.ID)
	}

	return nil
}

// Login signs in the account matching email case-insensitively.
func (s *Store) Login(ctx context.Context, email, password string) model.Result {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	users, err := s.registry(ctx)
	if err != nil {
		s.logger.Error("login failed", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgLoginFailed)
	}

	idx := indexByEmail(users, email)
	if idx < 0 {
		return model.Fail(model.ErrNotFound, MsgNoAccount)
	}
	user := users[idx]
	if user.Password != password {
		return model.Fail(model.ErrInvalidCredential, MsgWrongPassword)
	}

	if err := kv.SetJSON(ctx, s.kv, KeyUser, user); err != nil {
		s.logger.Error("login failed", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgLoginFailed)
	}

	s.setCurrent(&user)
	s.logger.Info("user logged in", "user_id", user.ID)
	return model.OK("")
}

// Register adds a new account and signs it in. The role is derived from the
// email; the caller-supplied role is ignored.
func (s *Store) Register(ctx context.Context, user model.User) model.Result {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	users, err := s.registry(ctx)
	if err != nil {
		s.logger.Error("registration failed", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgRegisterFailed)
	}

	if indexByEmail(users, user.Email) >= 0 {
		return model.Fail(model.ErrDuplicateEmail, MsgDuplicateEmail)
	}

	newUser := user.Clone()
	newUser.Role = model.RoleForEmail(newUser.Email)
	if newUser.ID == "" {
		newUser.ID = s.newID()
	}
	users = append(users, newUser)

	entries, err := kv.Entries(map[string]any{
		KeyAllUsers: users,
		KeyUser:     newUser,
	})
	if err == nil {
		err = s.kv.SetMany(ctx, entries)
	}
	if err != nil {
		s.logger.Error("registration failed", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgRegisterFailed)
	}

	s.setCurrent(&newUser)
	s.logger.Info("user registered", "user_id", newUser.ID, "role", newUser.Role)
	return model.OK("")
}

// UpdateUser merges patch into the signed-in account and its registry entry.
// Changing the email to one held by another account fails with
// ErrDuplicateEmail.
func (s *Store) UpdateUser(ctx context.Context, patch model.UserPatch) model.Result {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current, ok := s.CurrentUser()
	if !ok {
		return model.Fail(model.ErrNoSession, MsgNotSignedIn)
	}
	updated := patch.Apply(current)

	users, err := s.registry(ctx)
	if err != nil {
		s.logger.Error("failed to update user", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgUpdateFailed)
	}

	idx := indexByEmail(users, current.Email)
	if !model.SameEmail(updated.Email, current.Email) {
		for i, u := range users {
			if i != idx && model.SameEmail(u.Email, updated.Email) {
				return model.Fail(model.ErrDuplicateEmail, MsgDuplicateEmail)
			}
		}
	}

	values := map[string]any{KeyUser: updated}
	if idx >= 0 {
		users[idx] = updated
		values[KeyAllUsers] = users
	}

	entries, err := kv.Entries(values)
	if err == nil {
		err = s.kv.SetMany(ctx, entries)
	}
	if err != nil {
		s.logger.Error("failed to update user", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgUpdateFailed)
	}

	s.setCurrent(&updated)
	s.logger.Info("user profile updated", "user_id", updated.ID)
	return model.OK("")
}

// Logout clears the persisted session. The registry is left untouched.
func (s *Store) Logout(ctx context.Context) model.Result {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.kv.Remove(ctx, KeyUser); err != nil {
		s.logger.Error("failed to remove user data", "error", err)
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgLogoutFailed)
	}

	s.setCurrent(nil)
	s.logger.Info("user logged out")
	return model.OK("")
}

// CurrentUser returns a copy of the signed-in account.
func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.User{}, false
	}
	return s.current.Clone(), true
}

// Loading reports whether Init has not finished yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Registry returns every persisted account.
func (s *Store) Registry(ctx context.Context) ([]model.User, error) {
	return s.registry(ctx)
}

func (s *Store) registry(ctx context.Context) ([]model.User, error) {
	users, _, err := kv.GetJSON[[]model.User](ctx, s.kv, KeyAllUsers)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", KeyAllUsers, err)
	}
	return users, nil
}

func (s *Store) setCurrent(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		s.current = nil
		return
	}
	clone := u.Clone()
	s.current = &clone
}

func indexByEmail(users []model.User, email string) int {
	folded := model.FoldEmail(email)
	return slices.IndexFunc(users, func(u model.User) bool {
		return model.FoldEmail(u.Email) == folded
	})
}
