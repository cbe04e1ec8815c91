// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/unievent/internal/model"
)

// DefaultCustomType names a custom event type left blank.
const DefaultCustomType = "Other"

// EventInput is the raw content of the event form.
type EventInput struct {
	Title       string
	Date        string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
	// Type is one of model.EventTypes unless Custom is set.
	Type string
	// Custom selects CustomType as the event type.
	Custom     bool
	CustomType string
	Image      string
}

type eventForm struct {
	Title       string `validate:"required"`
	Location    string `validate:"required"`
	Description string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02,not_before_today"`
	Image       string `validate:"omitempty,http_url"`
}

// Event checks the event form and returns the event it describes, without
// an id. Text fields are stripped of markup and trimmed.
func (v *Validator) Event(in EventInput) (model.Event, error) {
	f := eventForm{
		Title:       v.sanitize(in.Title),
		Location:    v.sanitize(in.Location),
		Description: v.sanitize(in.Description),
		Date:        in.Date,
		Image:       v.sanitize(in.Image),
	}

	if err := v.check(f, eventMessages); err != nil {
		return model.Event{}, err
	}

	ev := model.Event{
		Title:       f.Title,
		Date:        f.Date,
		Time:        model.FormatTimeRange(in.Start, in.End),
		Location:    f.Location,
		Description: f.Description,
		Type:        v.eventType(in),
	}
	if f.Image != "" {
		ev.Image = &f.Image
	}
	return ev, nil
}

// EventPatch checks the event form for an edit of current and returns the
// fields that changed. The image is only replaced when one is given.
func (v *Validator) EventPatch(current model.Event, in EventInput) (model.EventPatch, bool, error) {
	ev, err := v.Event(in)
	if err != nil {
		return model.EventPatch{}, false, err
	}

	var patch model.EventPatch
	changed := false
	diff := func(dst **string, next, prev string) {
		if next != prev {
			*dst = &next
			changed = true
		}
	}
	diff(&patch.Title, ev.Title, current.Title)
	diff(&patch.Date, ev.Date, current.Date)
	diff(&patch.Time, ev.Time, current.Time)
	diff(&patch.Location, ev.Location, current.Location)
	diff(&patch.Description, ev.Description, current.Description)
	diff(&patch.Type, ev.Type, current.Type)
	if ev.Image != nil && (current.Image == nil || *ev.Image != *current.Image) {
		patch.Image = ev.Image
		changed = true
	}

	return patch, changed, nil
}

// InputFromEvent fills the event form from an existing event for editing.
// A time without an end starts and ends at the same time. Only remote
// images are carried over since the form accepts http(s) URLs alone.
func InputFromEvent(ev model.Event) EventInput {
	in := EventInput{
		Title:       ev.Title,
		Date:        ev.Date,
		Location:    ev.Location,
		Description: ev.Description,
		Type:        ev.Type,
	}

	if start, end, hasEnd, err := model.ParseTimeRange(ev.Time); err == nil {
		in.Start = start
		in.End = end
		if !hasEnd {
			in.End = start
		}
	}

	if ev.Type != "" && model.IsCustomEventType(ev.Type) {
		in.Type = ""
		in.Custom = true
		in.CustomType = ev.Type
	}

	if ev.HasRemoteImage() {
		in.Image = *ev.Image
	}
	return in
}

func (v *Validator) eventType(in EventInput) string {
	if in.Custom {
		if name := v.sanitize(in.CustomType); name != "" {
			return name
		}
		return DefaultCustomType
	}
	if in.Type == "" {
		return model.DefaultEventType
	}
	return in.Type
}

func eventMessages(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagNotBeforeToday:
		return MsgPastDate
	case "datetime":
		return MsgInvalidDate
	case "http_url":
		return MsgInvalidImage
	default:
		return MsgFillAllFields
	}
}
