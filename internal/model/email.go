// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldEmail returns the lowercased form of an email address used for
// lookups. Only case differs between matching addresses, so "ß" and "ss"
// stay distinct. A new Caser is created per call since Casers are stateful.
func FoldEmail(email string) string {
	return cases.Lower(language.Und).String(email)
}

// SameEmail reports whether two addresses match case-insensitively.
func SameEmail(a, b string) bool {
	return FoldEmail(a) == FoldEmail(b)
}

// RoleForEmail returns the role a newly registered address receives.
func RoleForEmail(email string) string {
	if SameEmail(email, AdminEmail) {
		return RoleAdmin
	}
	return RoleStudent
}
