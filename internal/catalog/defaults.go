// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/olegiv/unievent/internal/model"
)

//go:embed defaults.json
var defaultsJSON []byte

var bundledEvents = mustParseEvents(defaultsJSON)

// DefaultEvents returns a copy of the bundled catalog used on first run and
// after a reset.
func DefaultEvents() []model.Event {
	return model.CloneEvents(bundledEvents)
}

func mustParseEvents(data []byte) []model.Event {
	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		panic(fmt.Sprintf("catalog: parsing bundled events: %v", err))
	}
	return events
}
