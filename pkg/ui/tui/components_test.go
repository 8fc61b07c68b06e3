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
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyEvent(key tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(key, 0, tcell.ModNone)
}

func noFocus(tview.Primitive) {}

func TestFormatToggle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		label         string
		shouldHave    []string
		shouldNotHave []string
		value         bool
		selected      bool
	}{
		{
			name:       "checked and selected",
			value:      true,
			label:      "Subtitles",
			selected:   true,
			shouldHave: []string{"[*]", "Subtitles", "darkblue:white"},
		},
		{
			name:          "checked but not selected",
			value:         true,
			label:         "Mute speech",
			selected:      false,
			shouldHave:    []string{"[*]", "Mute speech", "white:darkblue"},
			shouldNotHave: []string{"darkblue:white"},
		},
		{
			name:       "unchecked and selected",
			value:      false,
			label:      "Subtitles",
			selected:   true,
			shouldHave: []string{"[ ]", "Subtitles", "darkblue:white"},
		},
		{
			name:          "unchecked and not selected",
			value:         false,
			label:         "Ghost mode",
			selected:      false,
			shouldHave:    []string{"[ ]", "Ghost mode", "white:darkblue"},
			shouldNotHave: []string{"darkblue:white"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := formatToggle(tt.value, tt.label, tt.selected)

			for _, substr := range tt.shouldHave {
				assert.Contains(t, result, substr,
					"expected %q to contain %q", result, substr)
			}
			for _, substr := range tt.shouldNotHave {
				assert.NotContains(t, result, substr,
					"expected %q to not contain %q", result, substr)
			}
		})
	}
}

func TestFormatDisabledToggle(t *testing.T) {
	t.Parallel()

	checked := formatDisabledToggle(true, "Slow mode")
	assert.Contains(t, checked, "[*]",
		"a disabled toggle keeps showing its check")
	assert.Contains(t, checked, "Slow mode")
	assert.Contains(t, checked, "gray")

	unchecked := formatDisabledToggle(false, "Slow mode")
	assert.Contains(t, unchecked, "[ ]")
	assert.NotContains(t, unchecked, "white:",
		"disabled rows never use the normal text color")
}

func TestFormatCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		label         string
		currentValue  string
		shouldHave    []string
		shouldNotHave []string
		selected      bool
	}{
		{
			name:         "selected cycle option",
			label:        "Music volume",
			currentValue: "80%",
			selected:     true,
			shouldHave:   []string{"Music volume", "< 80% >", "darkblue:white"},
		},
		{
			name:          "unselected cycle option",
			label:         "Theme",
			currentValue:  "Nord",
			selected:      false,
			shouldHave:    []string{"Theme", "< Nord >", "white:darkblue"},
			shouldNotHave: []string{"darkblue:white"},
		},
		{
			name:         "empty value",
			label:        "Option",
			currentValue: "",
			selected:     false,
			shouldHave:   []string{"Option", "<  >"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := formatCycle(tt.label, tt.currentValue, tt.selected)

			for _, substr := range tt.shouldHave {
				assert.Contains(t, result, substr,
					"expected %q to contain %q", result, substr)
			}
			for _, substr := range tt.shouldNotHave {
				assert.NotContains(t, result, substr,
					"expected %q to not contain %q", result, substr)
			}
		})
	}
}

func TestFormatAction(t *testing.T) {
	t.Parallel()

	selected := formatAction("Clear cache", true)
	assert.Contains(t, selected, "Clear cache")
	assert.Contains(t, selected, "darkblue:white")

	unselected := formatAction("Clear cache", false)
	assert.Contains(t, unselected, "white:darkblue")
	assert.NotContains(t, unselected, "darkblue:white")
}

func TestFormatDesc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  Some description", formatDesc("Some description"))
	assert.Equal(t, "  ", formatDesc(""))
}

func TestFormatProgressBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		done      int
		total     int
		width     int
		wantFill  int
		wantEmpty int
	}{
		{name: "empty", done: 0, total: 10, width: 10, wantFill: 0, wantEmpty: 10},
		{name: "half", done: 5, total: 10, width: 10, wantFill: 5, wantEmpty: 5},
		{name: "full", done: 10, total: 10, width: 10, wantFill: 10, wantEmpty: 0},
		{name: "rounds down", done: 3, total: 4, width: 10, wantFill: 7, wantEmpty: 3},
		{name: "zero total is all empty", done: 0, total: 0, width: 8, wantFill: 0, wantEmpty: 8},
		{name: "done beyond total clamps", done: 15, total: 10, width: 10, wantFill: 10, wantEmpty: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := formatProgressBar(tt.done, tt.total, tt.width)
			assert.Equal(t, tt.wantFill, strings.Count(result, "█"))
			assert.Equal(t, tt.wantEmpty, strings.Count(result, "░"))
			assert.True(t, strings.HasSuffix(result, "[-]"),
				"bar must reset the color tag")
		})
	}

	assert.Empty(t, formatProgressBar(1, 2, 0), "zero width renders nothing")
}

func TestSettingsListCreation(t *testing.T) {
	t.Parallel()

	sl := NewSettingsList()

	require.NotNil(t, sl)
	require.NotNil(t, sl.List)
	assert.Equal(t, 0, sl.GetItemCount())
	assert.Empty(t, sl.items)
}

func TestSettingsListAddToggle(t *testing.T) {
	t.Parallel()

	sl := NewSettingsList()

	value := false
	called := false
	sl.AddToggle("Subtitles", "Show subtitles", &value, func(_ bool) {
		called = true
	})

	assert.Equal(t, 1, sl.GetItemCount())
	require.Len(t, sl.items, 1)
	assert.Equal(t, "toggle", sl.items[0].itemType)
	assert.Equal(t, "Subtitles", sl.items[0].label)
	assert.Equal(t, "Show subtitles", sl.items[0].description)
	assert.False(t, called, "callback must not fire on add")
}

func TestSettingsListAddCycle(t *testing.T) {
	t.Parallel()

	sl := NewSettingsList()

	idx := 1
	options := []string{"0%", "50%", "100%"}
	sl.AddCycle("Music volume", "Background music volume", options, &idx, nil)

	assert.Equal(t, 1, sl.GetItemCount())
	require.Len(t, sl.items, 1)
	assert.Equal(t, "cycle", sl.items[0].itemType)
	assert.Equal(t, options, sl.items[0].cycleOptions)
	assert.Same(t, &idx, sl.items[0].cycleIndex)
}

func TestSettingsListAddAction(t *testing.T) {
	t.Parallel()

	sl := NewSettingsList()

	called := false
	sl.AddAction("Rescan", "Rescan save states", func() { called = true })

	assert.Equal(t, 1, sl.GetItemCount())
	require.Len(t, sl.items, 1)
	assert.Equal(t, "action", sl.items[0].itemType)
	assert.False(t, called, "action must not fire on add")
}

func TestSettingsListChaining(t *testing.T) {
	t.Parallel()

	value := false
	idx := 0
	sl := NewSettingsList().
		AddToggle("Toggle", "desc", &value, nil).
		AddCycle("Cycle", "desc", []string{"A", "B"}, &idx, nil).
		AddAction("Action", "desc", func() {})

	assert.Equal(t, 3, sl.GetItemCount())
}

func TestSettingsListCurrentDescription(t *testing.T) {
	t.Parallel()

	value := false
	sl := NewSettingsList().
		AddToggle("First", "first description", &value, nil)

	assert.Equal(t, "first description", sl.GetCurrentDescription())

	empty := NewSettingsList()
	assert.Empty(t, empty.GetCurrentDescription())
}

func TestSettingsListHelpCallback(t *testing.T) {
	t.Parallel()

	var lastHelp string
	value := false
	sl := NewSettingsList().
		SetDynamicHelpMode(true).
		AddToggle("First", "first description", &value, nil)

	// Registered after the items were added, so nothing has fired yet.
	sl.SetHelpCallback(func(text string) { lastHelp = text })
	assert.Empty(t, lastHelp)

	sl.TriggerInitialHelp()
	assert.Equal(t, "first description", lastHelp)
}

func TestSettingsListCycleItem(t *testing.T) {
	t.Parallel()

	idx := 0
	var gotValue string
	gotIndex := -1
	sl := NewSettingsList().
		AddCycle("Volume", "desc", []string{"0%", "50%", "100%"}, &idx, nil)

	onChange := func(value string, index int) {
		gotValue = value
		gotIndex = index
	}

	sl.CycleItem(0, 1, onChange)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "50%", gotValue)
	assert.Equal(t, 1, gotIndex)

	// Wrap backwards from the first option.
	idx = 0
	sl.CycleItem(0, -1, onChange)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "100%", gotValue)

	// Deltas larger than the option count wrap too.
	idx = 0
	sl.CycleItem(0, 5, nil)
	assert.Equal(t, 2, idx)
}

func TestSettingsListCycleItemIgnoresNonCycles(t *testing.T) {
	t.Parallel()

	value := false
	idx := 0
	sl := NewSettingsList().
		AddToggle("Toggle", "desc", &value, nil).
		AddCycle("Cycle", "desc", []string{"A", "B"}, &idx, nil)

	called := false
	sl.CycleItem(0, 1, func(string, int) { called = true })
	assert.False(t, called, "toggles are not cycled")
	assert.False(t, value)

	sl.CycleItem(99, 1, func(string, int) { called = true })
	assert.False(t, called, "out of range indices are ignored")
}

func TestSettingsListSetupCycleKeys(t *testing.T) {
	t.Parallel()

	escaped := false
	idx := 0
	sl := NewSettingsList().
		SetOnEscape(func() { escaped = true }).
		AddCycle("Volume", "desc", []string{"0%", "50%", "100%"}, &idx, nil)
	sl.SetupCycleKeys(map[int]func(delta int){0: sl.cycleStep(0)})

	capture := sl.GetInputCapture()
	require.NotNil(t, capture)

	assert.Nil(t, capture(keyEvent(tcell.KeyRight)), "handled keys are consumed")
	assert.Equal(t, 1, idx)

	assert.Nil(t, capture(keyEvent(tcell.KeyLeft)))
	assert.Equal(t, 0, idx)

	// Escape still reaches the original capture through the chain.
	assert.Nil(t, capture(keyEvent(tcell.KeyEscape)))
	assert.True(t, escaped)

	// Unhandled keys pass through.
	assert.NotNil(t, capture(keyEvent(tcell.KeyHome)))
}

func TestButtonBarCreation(t *testing.T) {
	t.Parallel()

	bb := NewButtonBar()

	require.NotNil(t, bb)
	require.NotNil(t, bb.Box)
	assert.Empty(t, bb.buttons)
}

func TestButtonBarAddButton(t *testing.T) {
	t.Parallel()

	pressed := false
	bb := NewButtonBar().
		AddButton("OK", func() { pressed = true }).
		AddButtonWithHelp("Cancel", "Discard changes", func() {})

	assert.Len(t, bb.buttons, 2)
	assert.Len(t, bb.helpTexts, 2, "every button has a help slot")
	assert.Equal(t, "Discard changes", bb.helpTexts[1])
	assert.False(t, pressed, "button must not fire on add")
}

func TestButtonBarFocusButtonBounds(t *testing.T) {
	t.Parallel()

	bb := NewButtonBar().
		AddButton("One", func() {}).
		AddButton("Two", func() {})

	bb.FocusButton(1)
	assert.Equal(t, 1, bb.focusedIndex)

	bb.FocusButton(5)
	assert.Equal(t, 1, bb.focusedIndex, "out of range focus is ignored")
	bb.FocusButton(-1)
	assert.Equal(t, 1, bb.focusedIndex)
}

func TestButtonBarKeyboardNavigation(t *testing.T) {
	t.Parallel()

	var help []string
	bb := NewButtonBar().
		AddButtonWithHelp("One", "first", func() {}).
		AddButtonWithHelp("Two", "second", func() {}).
		AddButtonWithHelp("Three", "third", func() {}).
		SetHelpCallback(func(text string) { help = append(help, text) })

	handler := bb.InputHandler()

	handler(keyEvent(tcell.KeyRight), noFocus)
	assert.Equal(t, 1, bb.focusedIndex)

	handler(keyEvent(tcell.KeyRight), noFocus)
	assert.Equal(t, 2, bb.focusedIndex)

	// Right wraps around the end, Left and Backtab wrap the other way.
	handler(keyEvent(tcell.KeyRight), noFocus)
	assert.Equal(t, 0, bb.focusedIndex)
	handler(keyEvent(tcell.KeyLeft), noFocus)
	assert.Equal(t, 2, bb.focusedIndex)
	handler(keyEvent(tcell.KeyBacktab), noFocus)
	assert.Equal(t, 1, bb.focusedIndex)

	assert.Equal(t, []string{"second", "third", "first", "third", "second"}, help,
		"focus movement reports the focused button's help")
}

func TestButtonBarTabWrap(t *testing.T) {
	t.Parallel()

	wrapped := false
	bb := NewButtonBar().
		AddButton("One", func() {}).
		AddButton("Two", func() {}).
		SetOnWrap(func() { wrapped = true })

	handler := bb.InputHandler()

	handler(keyEvent(tcell.KeyTab), noFocus)
	assert.Equal(t, 1, bb.focusedIndex)
	assert.False(t, wrapped)

	// Tab past the last button hands focus away instead of advancing.
	handler(keyEvent(tcell.KeyTab), noFocus)
	assert.Equal(t, 1, bb.focusedIndex)
	assert.True(t, wrapped)
}

func TestButtonBarTabWithoutWrapCycles(t *testing.T) {
	t.Parallel()

	bb := NewButtonBar().
		AddButton("One", func() {}).
		AddButton("Two", func() {})

	handler := bb.InputHandler()
	handler(keyEvent(tcell.KeyTab), noFocus)
	handler(keyEvent(tcell.KeyTab), noFocus)
	assert.Equal(t, 0, bb.focusedIndex, "without a wrap target Tab cycles")
}

func TestButtonBarVerticalCallbacks(t *testing.T) {
	t.Parallel()

	upCalls, downCalls := 0, 0
	bb := NewButtonBar().
		AddButton("One", func() {}).
		SetOnUp(func() { upCalls++ })

	handler := bb.InputHandler()

	handler(keyEvent(tcell.KeyUp), noFocus)
	assert.Equal(t, 1, upCalls)

	// Down falls back to the Up target until one is set.
	handler(keyEvent(tcell.KeyDown), noFocus)
	assert.Equal(t, 2, upCalls)

	bb.SetOnDown(func() { downCalls++ })
	handler(keyEvent(tcell.KeyDown), noFocus)
	assert.Equal(t, 2, upCalls)
	assert.Equal(t, 1, downCalls)
}

func TestButtonBarEnterPressesFocusedButton(t *testing.T) {
	t.Parallel()

	var pressed []string
	bb := NewButtonBar().
		AddButton("OK", func() { pressed = append(pressed, "OK") }).
		AddButton("Cancel", func() { pressed = append(pressed, "Cancel") })

	handler := bb.InputHandler()

	handler(keyEvent(tcell.KeyEnter), noFocus)
	handler(keyEvent(tcell.KeyRight), noFocus)
	handler(keyEvent(tcell.KeyEnter), noFocus)

	assert.Equal(t, []string{"OK", "Cancel"}, pressed)
}

func TestButtonBarEscape(t *testing.T) {
	t.Parallel()

	escaped := false
	bb := NewButtonBar().
		AddButton("OK", func() {}).
		SetupNavigation(func() { escaped = true })

	bb.InputHandler()(keyEvent(tcell.KeyEscape), noFocus)
	assert.True(t, escaped)
}

func TestTabBarSelectTab(t *testing.T) {
	t.Parallel()

	var selected []int
	tb := NewTabBar([]string{"Game", "Audio", "Backend"}).
		SetOnSelect(func(index int) { selected = append(selected, index) })

	assert.Equal(t, 0, tb.ActiveTab())

	tb.SelectTab(2)
	assert.Equal(t, 2, tb.ActiveTab())

	tb.SelectTab(2)
	tb.SelectTab(-1)
	tb.SelectTab(3)
	assert.Equal(t, 2, tb.ActiveTab(), "no-op and out of range selects are ignored")

	assert.Equal(t, []int{2}, selected,
		"the select callback fires only on real changes")
}

func TestTabBarKeyboard(t *testing.T) {
	t.Parallel()

	downs := 0
	escaped := false
	tb := NewTabBar([]string{"Game", "Audio", "Backend"}).
		SetOnDown(func() { downs++ }).
		SetOnEscape(func() { escaped = true })

	handler := tb.InputHandler()

	handler(keyEvent(tcell.KeyRight), noFocus)
	assert.Equal(t, 1, tb.ActiveTab())

	handler(keyEvent(tcell.KeyLeft), noFocus)
	handler(keyEvent(tcell.KeyLeft), noFocus)
	assert.Equal(t, 2, tb.ActiveTab(), "Left wraps to the last tab")

	handler(keyEvent(tcell.KeyRight), noFocus)
	assert.Equal(t, 0, tb.ActiveTab(), "Right wraps to the first tab")

	handler(keyEvent(tcell.KeyBacktab), noFocus)
	assert.Equal(t, 2, tb.ActiveTab())

	handler(keyEvent(tcell.KeyDown), noFocus)
	handler(keyEvent(tcell.KeyTab), noFocus)
	handler(keyEvent(tcell.KeyEnter), noFocus)
	assert.Equal(t, 3, downs, "Down, Tab and Enter all move into the tab content")

	handler(keyEvent(tcell.KeyEscape), noFocus)
	assert.True(t, escaped)
}

func TestSetupInputFieldFocusReturnsField(t *testing.T) {
	t.Parallel()

	field := tview.NewInputField()
	assert.Same(t, field, setupInputFieldFocus(field))
}
