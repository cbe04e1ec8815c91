// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"strings"
)

// DateLayout is the calendar date format of Event.Date. Dates in this
// layout compare chronologically as plain strings.
const DateLayout = "2006-01-02"

// Event types offered by the event form. Any other value is a custom type.
var EventTypes = []string{
	"Workshop",
	"Seminar",
	"Sports",
	"Cultural",
	"Exhibition",
	"Hackathon",
	"Networking",
	"Social",
}

// DefaultEventType is preselected for new events.
const DefaultEventType = "Workshop"

// Event is a campus event in the catalog.
type Event struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Image       *string `json:"image,omitempty"`
}

// IsCustomEventType reports whether t is not one of the predefined EventTypes.
func IsCustomEventType(t string) bool {
	return !slices.Contains(EventTypes, t)
}

// HasRemoteImage reports whether the event image points at an http(s) URL.
// Events without one are rendered with the bundled placeholder.
func (e *Event) HasRemoteImage() bool {
	return e.Image != nil && strings.HasPrefix(*e.Image, "http")
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	if e.Image != nil {
		img := *e.Image
		e.Image = &img
	}
	return e
}

// EventPatch holds the event fields to overwrite. Nil fields are kept.
type EventPatch struct {
	Title       *string
	Date        *string
	Time        *string
	Location    *string
	Description *string
	Type        *string
	Image       *string
}

// Apply returns a copy of e with the non-nil patch fields merged in.
func (p EventPatch) Apply(e Event) Event {
	out := e.Clone()
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.Title, p.Title)
	set(&out.Date, p.Date)
	set(&out.Time, p.Time)
	set(&out.Location, p.Location)
	set(&out.Description, p.Description)
	set(&out.Type, p.Type)
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	return out
}

// CloneEvents returns a deep copy of events. A nil input yields an empty slice.
func CloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
