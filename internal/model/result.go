// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

// Sentinel errors carried by failed results.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrPersistence       = errors.New("persistence failure")
	ErrNoSession         = errors.New("not signed in")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
)

// Result is the outcome of a store operation as shown to the user.
// Failures are reported here rather than returned as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// OK returns a successful result with an optional message.
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a failed result wrapping err.
func Fail(err error, message string) Result {
	return Result{Success: false, Message: message, Err: err}
}

// Is reports whether the result failed with target.
func (r Result) Is(target error) bool {
	return !r.Success && errors.Is(r.Err, target)
}
