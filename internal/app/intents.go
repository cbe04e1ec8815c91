// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/unievent/internal/form"
	"github.com/olegiv/unievent/internal/model"
)

// SignIn checks the sign-in form and logs the account in.
func (a *App) SignIn(ctx context.Context, email, password string) model.Result {
	if err := a.forms.SignIn(email, password); err != nil {
		return invalid(err)
	}
	return a.Session.Login(ctx, strings.TrimSpace(email), password)
}

// SignUp checks the sign-up form and registers a student account. The
// reserved admin address registers as admin.
func (a *App) SignUp(ctx context.Context, name, email, password string) model.Result {
	if err := a.forms.SignUp(name, email, password); err != nil {
		return invalid(err)
	}
	return a.Session.Register(ctx, model.User{
		ID:       a.newID(),
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
}

// SaveProfile updates the signed-in user's name, email and image. An empty
// image removes the current one.
func (a *App) SaveProfile(ctx context.Context, name, email, image string) model.Result {
	if _, res := a.requireUser(); !res.Success {
		return res
	}
	if err := a.forms.Profile(name, email); err != nil {
		return invalid(err)
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	image = strings.TrimSpace(image)
	patch := model.UserPatch{Name: &name, Email: &email, Image: &image}

	res := a.Session.UpdateUser(ctx, patch)
	if res.Success {
		res.Message = MsgProfileUpdated
	}
	return res
}

// SignOut ends the session.
func (a *App) SignOut(ctx context.Context) model.Result {
	return a.Session.Logout(ctx)
}

// PostEvent adds an event to the catalog. Admin only.
func (a *App) PostEvent(ctx context.Context, in form.EventInput) model.Result {
	if _, res := a.requireAdmin(); !res.Success {
		return res
	}

	ev, err := a.forms.Event(in)
	if err != nil {
		return invalid(err)
	}
	ev.ID = a.newID()

	res := a.Catalog.AddEvent(ev)
	if res.Success {
		res.Message = MsgEventAdded
	}
	return res
}

// EditEvent applies the changed form fields to an event. Admin only.
func (a *App) EditEvent(ctx context.Context, id string, in form.EventInput) model.Result {
	if _, res := a.requireAdmin(); !res.Success {
		return res
	}

	current, ok := a.Catalog.Event(id)
	if !ok {
		return model.Fail(model.ErrNotFound, MsgEventNotFound)
	}

	patch, changed, err := a.forms.EventPatch(current, in)
	if err != nil {
		return invalid(err)
	}
	if !changed {
		return model.Fail(model.ErrInvalidInput, MsgNoChanges)
	}

	res := a.Catalog.UpdateEvent(id, patch)
	if res.Success {
		res.Message = MsgEventUpdated
	}
	return res
}

// EventForm returns the event form prefilled from the event with id, for
// editing. Admin only.
func (a *App) EventForm(id string) (form.EventInput, model.Result) {
	if _, res := a.requireAdmin(); !res.Success {
		return form.EventInput{}, res
	}

	ev, ok := a.Catalog.Event(id)
	if !ok {
		return form.EventInput{}, model.Fail(model.ErrNotFound, MsgEventNotFound)
	}
	return form.InputFromEvent(ev), model.OK("")
}

// RemoveEvent deletes an event from the catalog. Admin only.
func (a *App) RemoveEvent(ctx context.Context, id string) model.Result {
	if _, res := a.requireAdmin(); !res.Success {
		return res
	}

	res := a.Catalog.DeleteEvent(id)
	if res.Success {
		res.Message = MsgEventDeleted
	}
	return res
}

// SyncCatalog restores the bundled catalog. Admin only.
func (a *App) SyncCatalog(ctx context.Context) model.Result {
	if _, res := a.requireAdmin(); !res.Success {
		return res
	}
	return a.Catalog.ResetEvents(ctx)
}

// JoinEvent registers the signed-in student for a catalog event.
func (a *App) JoinEvent(ctx context.Context, id string) model.Result {
	user, res := a.requireUser()
	if !res.Success {
		return res
	}
	if !user.IsStudent() {
		return model.Fail(model.ErrForbidden, MsgStudentOnly)
	}

	ev, ok := a.Catalog.Event(id)
	if !ok {
		return model.Fail(model.ErrNotFound, MsgEventNotFound)
	}
	return a.Catalog.RegisterForEvent(ctx, ev)
}

// LeaveEvent removes a registration of the signed-in user.
func (a *App) LeaveEvent(ctx context.Context, id string) model.Result {
	if _, res := a.requireUser(); !res.Success {
		return res
	}
	return a.Catalog.UnregisterFromEvent(ctx, id)
}

// ToggleTheme flips dark mode.
func (a *App) ToggleTheme(ctx context.Context) model.Result {
	if err := a.Theme.ToggleTheme(ctx); err != nil {
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgThemeFailed)
	}
	return model.OK("")
}

// ResetTheme switches back to light mode.
func (a *App) ResetTheme(ctx context.Context) model.Result {
	if err := a.Theme.ResetTheme(ctx); err != nil {
		return model.Fail(fmt.Errorf("%w: %w", model.ErrPersistence, err), MsgThemeFailed)
	}
	return model.OK(MsgThemeReset)
}

func (a *App) requireUser() (model.User, model.Result) {
	user, ok := a.Session.CurrentUser()
	if !ok {
		return model.User{}, model.Fail(model.ErrNoSession, MsgSignInRequired)
	}
	return user, model.OK("")
}

func (a *App) requireAdmin() (model.User, model.Result) {
	user, res := a.requireUser()
	if !res.Success {
		return user, res
	}
	if !user.IsAdmin() {
		return user, model.Fail(model.ErrForbidden, MsgAdminOnly)
	}
	return user, res
}
