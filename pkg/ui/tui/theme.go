// Intermezzo
// Copyright (c) 2025 The Intermezzo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Intermezzo.
//
// Intermezzo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Intermezzo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Intermezzo.  If not, see <http://www.gnu.org/licenses/>.

package tui

import (
	"fmt"

	"github.com/IntermezzoProject/intermezzo/pkg/helpers/syncutil"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme is a named color scheme for the menu. The string fields are color
// names or hex tags usable inside tview dynamic color markup; the tcell
// fields are applied directly to primitives.
type Theme struct {
	Name        string
	DisplayName string

	// Markup colors for dynamic tags in list and label text.
	BgColorName       string
	TextColorName     string
	AccentColorName   string
	DisabledColorName string
	HighlightBgName   string
	HighlightFgName   string
	ErrorColorName    string

	// Colors applied to primitives and custom drawing.
	PrimitiveBackgroundColor tcell.Color
	ContrastBackgroundColor  tcell.Color
	BorderColor              tcell.Color
	PrimaryTextColor         tcell.Color
	SecondaryTextColor       tcell.Color
	InverseTextColor         tcell.Color
	DisabledColor            tcell.Color
	FieldFocusedBg           tcell.Color
	FieldUnfocusedBg         tcell.Color
	ProgressFillColor        tcell.Color
	ProgressEmptyColor       tcell.Color
}

// MarkupTag converts a color to an inline markup tag like "[#88c0d0]".
func MarkupTag(c tcell.Color) string {
	return fmt.Sprintf("[#%06x]", c.Hex())
}

// AvailableThemes maps theme names to their definitions.
var AvailableThemes = map[string]*Theme{
	"default": {
		Name:        "default",
		DisplayName: "Default",

		BgColorName:       "darkblue",
		TextColorName:     "white",
		AccentColorName:   "yellow",
		DisabledColorName: "gray",
		HighlightBgName:   "white",
		HighlightFgName:   "darkblue",
		ErrorColorName:    "red",

		PrimitiveBackgroundColor: tcell.ColorDarkBlue,
		ContrastBackgroundColor:  tcell.ColorBlue,
		BorderColor:              tcell.ColorLightYellow,
		PrimaryTextColor:         tcell.ColorWhite,
		SecondaryTextColor:       tcell.ColorYellow,
		InverseTextColor:         tcell.ColorDarkBlue,
		DisabledColor:            tcell.ColorGray,
		FieldFocusedBg:           tcell.ColorBlue,
		FieldUnfocusedBg:         tcell.ColorNavy,
		ProgressFillColor:        tcell.ColorYellow,
		ProgressEmptyColor:       tcell.ColorGray,
	},
	"high_contrast": {
		Name:        "high_contrast",
		DisplayName: "High Contrast",

		BgColorName:       "black",
		TextColorName:     "white",
		AccentColorName:   "yellow",
		DisabledColorName: "gray",
		HighlightBgName:   "yellow",
		HighlightFgName:   "black",
		ErrorColorName:    "red",

		PrimitiveBackgroundColor: tcell.ColorBlack,
		ContrastBackgroundColor:  tcell.ColorDarkSlateGray,
		BorderColor:              tcell.ColorWhite,
		PrimaryTextColor:         tcell.ColorWhite,
		SecondaryTextColor:       tcell.ColorYellow,
		InverseTextColor:         tcell.ColorBlack,
		DisabledColor:            tcell.ColorGray,
		FieldFocusedBg:           tcell.ColorDarkSlateGray,
		FieldUnfocusedBg:         tcell.ColorBlack,
		ProgressFillColor:        tcell.ColorWhite,
		ProgressEmptyColor:       tcell.ColorDarkSlateGray,
	},
	"nord": {
		Name:        "nord",
		DisplayName: "Nord",

		BgColorName:       "#2e3440",
		TextColorName:     "#d8dee9",
		AccentColorName:   "#88c0d0",
		DisabledColorName: "#4c566a",
		HighlightBgName:   "#88c0d0",
		HighlightFgName:   "#2e3440",
		ErrorColorName:    "#bf616a",

		PrimitiveBackgroundColor: tcell.NewHexColor(0x2e3440),
		ContrastBackgroundColor:  tcell.NewHexColor(0x3b4252),
		BorderColor:              tcell.NewHexColor(0x88c0d0),
		PrimaryTextColor:         tcell.NewHexColor(0xd8dee9),
		SecondaryTextColor:       tcell.NewHexColor(0x81a1c1),
		InverseTextColor:         tcell.NewHexColor(0x2e3440),
		DisabledColor:            tcell.NewHexColor(0x4c566a),
		FieldFocusedBg:           tcell.NewHexColor(0x434c5e),
		FieldUnfocusedBg:         tcell.NewHexColor(0x3b4252),
		ProgressFillColor:        tcell.NewHexColor(0xa3be8c),
		ProgressEmptyColor:       tcell.NewHexColor(0x4c566a),
	},
	"monogreen": {
		Name:        "monogreen",
		DisplayName: "Mono Green",

		BgColorName:       "black",
		TextColorName:     "#33ff33",
		AccentColorName:   "#66ff66",
		DisabledColorName: "#1a661a",
		HighlightBgName:   "#33ff33",
		HighlightFgName:   "black",
		ErrorColorName:    "#66ff66",

		PrimitiveBackgroundColor: tcell.ColorBlack,
		ContrastBackgroundColor:  tcell.NewHexColor(0x0a330a),
		BorderColor:              tcell.NewHexColor(0x33ff33),
		PrimaryTextColor:         tcell.NewHexColor(0x33ff33),
		SecondaryTextColor:       tcell.NewHexColor(0x22aa22),
		InverseTextColor:         tcell.ColorBlack,
		DisabledColor:            tcell.NewHexColor(0x1a661a),
		FieldFocusedBg:           tcell.NewHexColor(0x0a330a),
		FieldUnfocusedBg:         tcell.ColorBlack,
		ProgressFillColor:        tcell.NewHexColor(0x33ff33),
		ProgressEmptyColor:       tcell.NewHexColor(0x1a661a),
	},
}

// ThemeNames lists themes in display order.
var ThemeNames = []string{"default", "high_contrast", "nord", "monogreen"}

var (
	currentTheme = AvailableThemes["default"]
	themeMu      syncutil.RWMutex
)

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme switches the active theme by name. Unknown names leave
// the current theme in place and report false.
func SetCurrentTheme(name string) bool {
	theme, ok := AvailableThemes[name]
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
	return true
}

// ApplyTheme writes a theme into the global tview styles. Primitives built
// afterwards pick the colors up automatically.
func ApplyTheme(theme *Theme) {
	tview.Styles.PrimitiveBackgroundColor = theme.PrimitiveBackgroundColor
	tview.Styles.ContrastBackgroundColor = theme.ContrastBackgroundColor
	tview.Styles.BorderColor = theme.BorderColor
	tview.Styles.TitleColor = theme.BorderColor
	tview.Styles.PrimaryTextColor = theme.PrimaryTextColor
	tview.Styles.SecondaryTextColor = theme.SecondaryTextColor
	tview.Styles.InverseTextColor = theme.InverseTextColor
	tview.Styles.ContrastSecondaryTextColor = theme.SecondaryTextColor
}
