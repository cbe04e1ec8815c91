// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records persisted by the UniEvent stores
// (users, events) together with the result and error types every store
// operation reports through.
package model

// User roles.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// AdminEmail is the reserved address that always maps to the admin role.
const AdminEmail = "admin@vau.ac.lk"

// User is a registered account. The password is stored as entered.
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Image    *string `json:"image"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStudent returns true if the user has student role.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	if u.Image != nil {
		img := *u.Image
		u.Image = &img
	}
	return u
}

// UserPatch holds the profile fields a signed-in user may change.
// Nil fields are left untouched; an empty Image clears the image.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Image    *string
}

// Apply returns a copy of u with the non-nil patch fields merged in.
func (p UserPatch) Apply(u User) User {
	out := u.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Password != nil {
		out.Password = *p.Password
	}
	if p.Image != nil {
		if *p.Image == "" {
			out.Image = nil
		} else {
			img := *p.Image
			out.Image = &img
		}
	}
	return out
}
