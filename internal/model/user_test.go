// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role string
		want bool
	}{
		{
			name: "admin role",
			role: RoleAdmin,
			want: true,
		},
		{
			name: "student role",
			role: RoleStudent,
			want: false,
		},
		{
			name: "empty role",
			role: "",
			want: false,
		},
		{
			name: "Admin uppercase",
			role: "Admin",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserIsStudent(t *testing.T) {
	if !(&User{Role: RoleStudent}).IsStudent() {
		t.Error("student role should report IsStudent")
	}
	if (&User{Role: RoleAdmin}).IsStudent() {
		t.Error("admin role should not report IsStudent")
	}
}

func TestUserPatchApply(t *testing.T) {
	img := "https://example.com/a.png"
	u := User{ID: "u1", Name: "A", Email: "a@vau.ac.lk", Password: "Abcdefg1", Role: RoleStudent}

	name := "New Name"
	got := UserPatch{Name: &name, Image: &img}.Apply(u)

	if got.Name != "New Name" {
		t.Errorf("Name = %q, want %q", got.Name, "New Name")
	}
	if got.Email != u.Email {
		t.Errorf("Email = %q, want unchanged %q", got.Email, u.Email)
	}
	if got.Image == nil || *got.Image != img {
		t.Errorf("Image = %v, want %q", got.Image, img)
	}
	if u.Name != "A" || u.Image != nil {
		t.Error("Apply must not modify the original user")
	}

	img = "changed"
	if *got.Image == "changed" {
		t.Error("patched image must not alias the patch value")
	}
}

func TestUserPatchApply_ClearsImage(t *testing.T) {
	img := "https://example.com/a.png"
	u := User{ID: "u1", Image: &img}

	empty := ""
	if got := (UserPatch{Image: &empty}).Apply(u); got.Image != nil {
		t.Errorf("Image = %q, want nil", *got.Image)
	}
	if got := (UserPatch{}).Apply(u); got.Image == nil || *got.Image != img {
		t.Errorf("Image = %v, want unchanged %q", got.Image, img)
	}
}

func TestUserJSONShape(t *testing.T) {
	data, err := json.Marshal(User{ID: "admin_1", Email: AdminEmail, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, key := range []string{"id", "name", "email", "password", "role", "image"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing JSON field %q", key)
		}
	}
	if fields["image"] != nil {
		t.Errorf("image = %v, want null", fields["image"])
	}
}
