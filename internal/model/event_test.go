// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"testing"
	"time"
)

func TestIsCustomEventType(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		want bool
	}{
		{"workshop", "Workshop", false},
		{"social", "Social", false},
		{"lowercase predefined", "workshop", true},
		{"free form", "Book Club", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCustomEventType(tt.typ); got != tt.want {
				t.Errorf("IsCustomEventType(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestEventHasRemoteImage(t *testing.T) {
	remote := "https://images.example.com/hall.jpg"
	local := "assets/hall.jpg"

	tests := []struct {
		name  string
		image *string
		want  bool
	}{
		{"nil image", nil, false},
		{"remote image", &remote, true},
		{"bundled asset", &local, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Image: tt.image}
			if got := e.HasRemoteImage(); got != tt.want {
				t.Errorf("HasRemoteImage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventPatchApply(t *testing.T) {
	e := Event{ID: "e1", Title: "Old", Location: "Hall A", Type: "Seminar"}

	title := "New"
	got := EventPatch{Title: &title}.Apply(e)

	if got.ID != "e1" {
		t.Errorf("ID = %q, want e1", got.ID)
	}
	if got.Title != "New" {
		t.Errorf("Title = %q, want New", got.Title)
	}
	if got.Location != "Hall A" || got.Type != "Seminar" {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if e.Title != "Old" {
		t.Error("Apply must not modify the original event")
	}
}

func TestCloneEvents(t *testing.T) {
	img := "https://example.com/x.png"
	in := []Event{{ID: "1", Image: &img}}

	out := CloneEvents(in)
	*out[0].Image = "mutated"

	if *in[0].Image != img {
		t.Error("CloneEvents must deep copy images")
	}
	if got := CloneEvents(nil); got == nil || len(got) != 0 {
		t.Errorf("CloneEvents(nil) = %v, want empty non-nil slice", got)
	}
}

func TestFormatAndParseTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

	s := FormatTimeRange(start, end)
	if s != "09:30 AM - 01:00 PM" {
		t.Fatalf("FormatTimeRange = %q", s)
	}

	gotStart, gotEnd, hasEnd, err := ParseTimeRange(s)
	if err != nil {
		t.Fatalf("ParseTimeRange: %v", err)
	}
	if !hasEnd {
		t.Fatal("expected an end time")
	}
	if gotStart.Hour() != 9 || gotStart.Minute() != 30 {
		t.Errorf("start = %v", gotStart)
	}
	if gotEnd.Hour() != 13 || gotEnd.Minute() != 0 {
		t.Errorf("end = %v", gotEnd)
	}
}

func TestParseTimeRange_StartOnly(t *testing.T) {
	start, _, hasEnd, err := ParseTimeRange("6:00 PM")
	if err != nil {
		t.Fatalf("ParseTimeRange: %v", err)
	}
	if hasEnd {
		t.Error("single time must not report an end")
	}
	if start.Hour() != 18 {
		t.Errorf("start hour = %d, want 18", start.Hour())
	}
}

func TestParseTimeRange_Invalid(t *testing.T) {
	_, _, _, err := ParseTimeRange("soon - later")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResultIs(t *testing.T) {
	r := Fail(ErrAlreadyRegistered, "Already registered!")
	if !r.Is(ErrAlreadyRegistered) {
		t.Error("failed result should match its error")
	}
	if r.Is(ErrNotFound) {
		t.Error("failed result should not match other errors")
	}
	if OK("done").Is(ErrAlreadyRegistered) {
		t.Error("successful result never matches an error")
	}
}
