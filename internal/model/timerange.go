// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the layout of each half of Event.Time.
const ClockLayout = "03:04 PM"

const timeRangeSep = " - "

// FormatTimeRange renders start and end as "03:04 PM - 05:00 PM".
func FormatTimeRange(start, end time.Time) string {
	return start.Format(ClockLayout) + timeRangeSep + end.Format(ClockLayout)
}

// ParseTimeRange parses an Event.Time value. Older events carry only a start
// time; in that case end is zero and hasEnd is false.
func ParseTimeRange(s string) (start, end time.Time, hasEnd bool, err error) {
	startPart, endPart, found := strings.Cut(s, timeRangeSep)

	start, err = parseClock(startPart)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if !found {
		return start, time.Time{}, false, nil
	}

	end, err = parseClock(endPart)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return start, end, true, nil
}

func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "3:04 PM", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised time %q", ErrInvalidInput, s)
}
