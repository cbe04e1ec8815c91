// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

// Colors holds the named color slots the screens render with.
type Colors struct {
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Primary       string `json:"primary"`
	Border        string `json:"border"`
	Card          string `json:"card"`
	NavBackground string `json:"navBackground"`
}

// Theme is derived from the dark-mode flag on every read. It is never stored.
type Theme struct {
	Dark   bool   `json:"dark"`
	Colors Colors `json:"colors"`
}

var (
	darkColors = Colors{
		Background:    "#121212",
		Surface:       "#1e1e1e",
		Text:          "#ffffff",
		TextSecondary: "#b0b0b0",
		Primary:       "#90caf9",
		Border:        "#333333",
		Card:          "#242424",
		NavBackground: "#1a1a1a",
	}

	lightColors = Colors{
		Background:    "#ffffff",
		Surface:       "#f8f9fa",
		Text:          "#333333",
		TextSecondary: "#666666",
		Primary:       "#003366",
		Border:        "#eeeeee",
		Card:          "#ffffff",
		NavBackground: "#ffffff",
	}
)

// For returns the theme for the given mode.
func For(dark bool) Theme {
	if dark {
		return Theme{Dark: true, Colors: darkColors}
	}
	return Theme{Dark: false, Colors: lightColors}
}
