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
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func setupInputFieldFocus(field *tview.InputField) *tview.InputField {
	field.SetFieldBackgroundColor(CurrentTheme().FieldUnfocusedBg)
	field.SetFocusFunc(func() {
		field.SetFieldBackgroundColor(CurrentTheme().FieldFocusedBg)
	})
	field.SetBlurFunc(func() {
		field.SetFieldBackgroundColor(CurrentTheme().FieldUnfocusedBg)
	})
	return field
}

// formatToggle renders a toggle value. When selected, label is highlighted.
func formatToggle(value bool, label string, selected bool) string {
	t := CurrentTheme()
	checkbox := "[ ]"
	if value {
		checkbox = "[*]"
	}
	if selected {
		return fmt.Sprintf("[%s:%s]- %s [%s:%s]%s[-:%s]",
			t.AccentColorName, t.BgColorName, checkbox,
			t.HighlightFgName, t.HighlightBgName, label, t.BgColorName)
	}
	return fmt.Sprintf("[%s:%s]- %s [%s:%s]%s[-:-]",
		t.AccentColorName, t.BgColorName, checkbox,
		t.TextColorName, t.BgColorName, label)
}

// formatDisabledToggle renders a toggle that cannot currently be changed.
// The checked state still shows so the user can see what will be kept.
func formatDisabledToggle(value bool, label string) string {
	t := CurrentTheme()
	checkbox := "[ ]"
	if value {
		checkbox = "[*]"
	}
	return fmt.Sprintf("[%s:%s]- %s %s[-:-]",
		t.DisabledColorName, t.BgColorName, checkbox, label)
}

// formatCycle renders a cycle value. When selected, label and value are highlighted.
func formatCycle(label, currentValue string, selected bool) string {
	t := CurrentTheme()
	if selected {
		return fmt.Sprintf("[%s:%s]- [%s:%s]%s: < %s >[-:%s]",
			t.AccentColorName, t.BgColorName,
			t.HighlightFgName, t.HighlightBgName, label, currentValue, t.BgColorName)
	}
	return fmt.Sprintf("[%s:%s]- [%s:%s]%s: < %s >[-:-]",
		t.AccentColorName, t.BgColorName,
		t.TextColorName, t.BgColorName, label, currentValue)
}

// formatAction renders an action item. When selected, label is highlighted.
func formatAction(label string, selected bool) string {
	t := CurrentTheme()
	if selected {
		return fmt.Sprintf("[%s:%s]- [%s:%s]%s[-:%s]",
			t.AccentColorName, t.BgColorName,
			t.HighlightFgName, t.HighlightBgName, label, t.BgColorName)
	}
	return fmt.Sprintf("[%s:%s]- [%s:%s]%s[-:-]",
		t.AccentColorName, t.BgColorName,
		t.TextColorName, t.BgColorName, label)
}

// formatDesc renders a description with 2-space indent.
func formatDesc(desc string) string {
	return "  " + desc
}

// formatProgressBar renders a filled/empty bar, e.g. for achievement progress.
func formatProgressBar(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
		if filled > width {
			filled = width
		}
	}
	t := CurrentTheme()
	return MarkupTag(t.ProgressFillColor) + strings.Repeat("█", filled) +
		MarkupTag(t.ProgressEmptyColor) + strings.Repeat("░", width-filled) + "[-]"
}

// settingsItem stores data for a single list item.
type settingsItem struct {
	toggleValue  *bool
	cycleIndex   *int
	itemType     string
	label        string
	description  string
	cycleOptions []string
}

// SettingsList wraps a tview.List with consistent navigation and manual
// highlight management.
type SettingsList struct {
	*tview.List
	onEscape        func()
	helpCallback    func(string)
	items           []settingsItem
	dynamicHelpMode bool
	hasFocus        bool
}

// NewSettingsList creates a new settings list with arrow key navigation.
func NewSettingsList() *SettingsList {
	list := tview.NewList()
	list.SetSecondaryTextColor(CurrentTheme().SecondaryTextColor)
	list.ShowSecondaryText(true)
	list.SetHighlightFullLine(false)
	list.SetSelectedStyle(tcell.StyleDefault)
	list.SetMainTextStyle(tcell.StyleDefault)

	sl := &SettingsList{
		List:     list,
		items:    make([]settingsItem, 0),
		hasFocus: true,
	}

	list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		sl.refreshAllItems(index)
	})

	list.SetFocusFunc(func() {
		sl.hasFocus = true
		sl.refreshAllItems(sl.GetCurrentItem())
	})

	list.SetBlurFunc(func() {
		sl.hasFocus = false
		sl.refreshAllItems(-1)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape && sl.onEscape != nil {
			sl.onEscape()
			return nil
		}
		return event
	})

	return sl
}

// SetOnEscape sets the callback for the Escape key.
func (sl *SettingsList) SetOnEscape(fn func()) *SettingsList {
	sl.onEscape = fn
	return sl
}

// SetHelpCallback sets a callback that fires when selection changes.
// The callback receives the description of the currently selected item.
// Use this with PageFrame's SetHelpText for dynamic help.
func (sl *SettingsList) SetHelpCallback(fn func(string)) *SettingsList {
	sl.helpCallback = fn
	return sl
}

// SetDynamicHelpMode enables or disables dynamic help mode.
// When enabled, inline descriptions are hidden and the help callback is used instead.
func (sl *SettingsList) SetDynamicHelpMode(enabled bool) *SettingsList {
	sl.dynamicHelpMode = enabled
	sl.ShowSecondaryText(!enabled)
	return sl
}

// TriggerInitialHelp calls the help callback with the first item's description.
// Call this after adding all items to set the initial help text.
func (sl *SettingsList) TriggerInitialHelp() *SettingsList {
	if sl.helpCallback != nil && len(sl.items) > 0 {
		sl.helpCallback(sl.items[0].description)
	}
	return sl
}

// GetCurrentDescription returns the description of the currently selected item.
func (sl *SettingsList) GetCurrentDescription() string {
	idx := sl.GetCurrentItem()
	if idx >= 0 && idx < len(sl.items) {
		return sl.items[idx].description
	}
	return ""
}

// refreshAllItems updates all items to reflect current selection state.
func (sl *SettingsList) refreshAllItems(selectedIndex int) {
	for i, item := range sl.items {
		// Only show highlight when the list has focus
		selected := sl.hasFocus && i == selectedIndex
		desc := formatDesc(item.description)

		var mainText string
		switch item.itemType {
		case "toggle":
			mainText = formatToggle(*item.toggleValue, item.label, selected)
		case "cycle":
			mainText = formatCycle(item.label, item.cycleOptions[*item.cycleIndex], selected)
		case "action":
			mainText = formatAction(item.label, selected)
		}

		sl.SetItemText(i, mainText, desc)
	}

	if sl.helpCallback != nil && selectedIndex >= 0 && selectedIndex < len(sl.items) {
		sl.helpCallback(sl.items[selectedIndex].description)
	}
}

// AddToggle adds a boolean toggle item to the list.
func (sl *SettingsList) AddToggle(
	label string,
	description string,
	value *bool,
	onChange func(bool),
) *SettingsList {
	index := sl.GetItemCount()
	selected := index == 0 // First item is selected by default

	sl.items = append(sl.items, settingsItem{
		itemType:    "toggle",
		label:       label,
		description: description,
		toggleValue: value,
	})

	sl.AddItem(formatToggle(*value, label, selected), formatDesc(description), 0, func() {
		*value = !*value
		if onChange != nil {
			onChange(*value)
		}
		sl.refreshAllItems(sl.GetCurrentItem())
	})

	return sl
}

// AddCycle adds an inline cycle selector to the list. Enter advances to the
// next option; pair with SetupCycleKeys for Left/Right stepping.
func (sl *SettingsList) AddCycle(
	label string,
	description string,
	options []string,
	currentIndex *int,
	onChange func(string, int),
) *SettingsList {
	index := sl.GetItemCount()
	selected := index == 0

	sl.items = append(sl.items, settingsItem{
		itemType:     "cycle",
		label:        label,
		description:  description,
		cycleOptions: options,
		cycleIndex:   currentIndex,
	})

	sl.AddItem(formatCycle(label, options[*currentIndex], selected), formatDesc(description), 0, func() {
		*currentIndex = (*currentIndex + 1) % len(options)
		if onChange != nil {
			onChange(options[*currentIndex], *currentIndex)
		}
		sl.refreshAllItems(sl.GetCurrentItem())
	})

	return sl
}

// AddAction adds a simple action item (like a submenu link or button).
func (sl *SettingsList) AddAction(
	label string,
	description string,
	action func(),
) *SettingsList {
	index := sl.GetItemCount()
	selected := index == 0

	sl.items = append(sl.items, settingsItem{
		itemType:    "action",
		label:       label,
		description: description,
	})

	sl.AddItem(formatAction(label, selected), formatDesc(description), 0, action)
	return sl
}

// CycleItem steps the cycle item at itemIndex by delta, wrapping around.
func (sl *SettingsList) CycleItem(itemIndex, delta int, onChange func(string, int)) {
	if itemIndex < 0 || itemIndex >= len(sl.items) {
		return
	}
	item := sl.items[itemIndex]
	if item.itemType != "cycle" || len(item.cycleOptions) == 0 {
		return
	}
	count := len(item.cycleOptions)
	*item.cycleIndex = (*item.cycleIndex + delta%count + count) % count
	if onChange != nil {
		onChange(item.cycleOptions[*item.cycleIndex], *item.cycleIndex)
	}
	sl.refreshAllItems(sl.GetCurrentItem())
}

// cycleStep returns a Left/Right handler for SetupCycleKeys that steps the
// cycle item at itemIndex.
func (sl *SettingsList) cycleStep(itemIndex int) func(delta int) {
	return func(delta int) {
		sl.CycleItem(itemIndex, delta, nil)
	}
}

// SetupCycleKeys adds Left/Right key handling for cycle items.
func (sl *SettingsList) SetupCycleKeys(
	cycleIndices map[int]func(delta int),
) *SettingsList {
	originalCapture := sl.GetInputCapture()

	sl.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentItem := sl.GetCurrentItem()

		switch event.Key() {
		case tcell.KeyLeft:
			if cycleFn, ok := cycleIndices[currentItem]; ok {
				cycleFn(-1)
				return nil
			}
		case tcell.KeyRight:
			if cycleFn, ok := cycleIndices[currentItem]; ok {
				cycleFn(1)
				return nil
			}
		default:
			// Let other keys pass through
		}

		if originalCapture != nil {
			return originalCapture(event)
		}
		return event
	})

	return sl
}

// ButtonBar creates a horizontal bar of buttons with arrow key navigation.
type ButtonBar struct {
	*tview.Box
	onEscape     func()
	onUp         func()
	onDown       func()
	onWrap       func()
	helpCallback func(string)
	buttons      []*tview.Button
	helpTexts    []string
	focusedIndex int
}

// NewButtonBar creates a new button bar.
func NewButtonBar() *ButtonBar {
	return &ButtonBar{
		Box:     tview.NewBox(),
		buttons: make([]*tview.Button, 0),
	}
}

// AddButton adds a button to the bar.
func (bb *ButtonBar) AddButton(label string, action func()) *ButtonBar {
	return bb.AddButtonWithHelp(label, "", action)
}

// AddButtonWithHelp adds a button with associated help text.
func (bb *ButtonBar) AddButtonWithHelp(label, helpText string, action func()) *ButtonBar {
	btn := tview.NewButton(label).SetSelectedFunc(action)
	bb.buttons = append(bb.buttons, btn)
	bb.helpTexts = append(bb.helpTexts, helpText)
	return bb
}

// SetHelpCallback sets the callback for when button focus changes.
func (bb *ButtonBar) SetHelpCallback(fn func(string)) *ButtonBar {
	bb.helpCallback = fn
	return bb
}

// triggerHelp calls the help callback with the current button's help text.
func (bb *ButtonBar) triggerHelp() {
	if bb.helpCallback != nil && bb.focusedIndex < len(bb.helpTexts) {
		bb.helpCallback(bb.helpTexts[bb.focusedIndex])
	}
}

// SetupNavigation sets up the escape callback.
func (bb *ButtonBar) SetupNavigation(onEscape func()) *ButtonBar {
	bb.onEscape = onEscape
	return bb
}

// SetOnUp sets the callback for when Up is pressed (to navigate back to content).
func (bb *ButtonBar) SetOnUp(fn func()) *ButtonBar {
	bb.onUp = fn
	return bb
}

// SetOnDown sets the callback for when Down is pressed (to wrap to top of content).
func (bb *ButtonBar) SetOnDown(fn func()) *ButtonBar {
	bb.onDown = fn
	return bb
}

// SetOnWrap sets the callback for when Tab is pressed on the last button (to wrap to top).
func (bb *ButtonBar) SetOnWrap(fn func()) *ButtonBar {
	bb.onWrap = fn
	return bb
}

// FocusButton moves the bar's internal focus to the button at index.
func (bb *ButtonBar) FocusButton(index int) {
	if index >= 0 && index < len(bb.buttons) {
		bb.focusedIndex = index
	}
}

// Draw renders the button bar.
func (bb *ButtonBar) Draw(screen tcell.Screen) {
	bb.DrawForSubclass(screen, bb)

	x, y, width, _ := bb.GetInnerRect()
	if len(bb.buttons) == 0 || width <= 0 {
		return
	}

	// Distribute the width evenly with spacing between buttons
	totalButtons := len(bb.buttons)
	spacing := 2
	totalSpacing := spacing * (totalButtons - 1)
	buttonWidth := (width - totalSpacing) / totalButtons
	if buttonWidth < 6 {
		buttonWidth = 6
	}

	hasFocus := bb.HasFocus()

	currentX := x
	for i, btn := range bb.buttons {
		btnWidth := buttonWidth
		if currentX+btnWidth > x+width {
			btnWidth = x + width - currentX
		}
		if btnWidth <= 0 {
			break
		}

		btn.SetRect(currentX, y, btnWidth, 1)

		// Show focus state on the currently selected button
		if hasFocus && i == bb.focusedIndex {
			btn.Focus(func(_ tview.Primitive) {})
		} else {
			btn.Blur()
		}

		btn.Draw(screen)
		currentX += btnWidth + spacing
	}
}

// InputHandler handles keyboard input for the button bar.
func (bb *ButtonBar) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return bb.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if len(bb.buttons) == 0 {
			return
		}

		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyBacktab:
			bb.focusedIndex = (bb.focusedIndex - 1 + len(bb.buttons)) % len(bb.buttons)
			bb.triggerHelp()
		case tcell.KeyRight:
			bb.focusedIndex = (bb.focusedIndex + 1) % len(bb.buttons)
			bb.triggerHelp()
		case tcell.KeyTab:
			if bb.focusedIndex == len(bb.buttons)-1 && bb.onWrap != nil {
				bb.onWrap()
			} else {
				bb.focusedIndex = (bb.focusedIndex + 1) % len(bb.buttons)
				bb.triggerHelp()
			}
		case tcell.KeyUp:
			if bb.onUp != nil {
				bb.onUp()
			}
		case tcell.KeyDown:
			if bb.onDown != nil {
				bb.onDown()
			} else if bb.onUp != nil {
				bb.onUp()
			}
		case tcell.KeyEnter:
			if bb.focusedIndex < len(bb.buttons) {
				btn := bb.buttons[bb.focusedIndex]
				if handler := btn.InputHandler(); handler != nil {
					handler(event, setFocus)
				}
			}
		case tcell.KeyEscape:
			if bb.onEscape != nil {
				bb.onEscape()
			}
		default:
			// Ignore other keys
		}
	})
}

// MouseHandler handles mouse input for the button bar.
func (bb *ButtonBar) MouseHandler() func(
	action tview.MouseAction,
	event *tcell.EventMouse,
	setFocus func(p tview.Primitive),
) (consumed bool, capture tview.Primitive) {
	return bb.WrapMouseHandler(func(
		action tview.MouseAction,
		event *tcell.EventMouse,
		setFocus func(p tview.Primitive),
	) (consumed bool, capture tview.Primitive) {
		if action != tview.MouseLeftClick {
			return false, nil
		}
		for i, btn := range bb.buttons {
			if !btn.InRect(event.Position()) {
				continue
			}
			bb.focusedIndex = i
			bb.triggerHelp()
			setFocus(bb)
			if handler := btn.MouseHandler(); handler != nil {
				return handler(action, event, setFocus)
			}
			return true, nil
		}
		return false, nil
	})
}

// Focus is called when the button bar receives focus.
func (bb *ButtonBar) Focus(delegate func(p tview.Primitive)) {
	if len(bb.buttons) > 0 {
		bb.Box.Focus(delegate)
		bb.triggerHelp()
	}
}

// HasFocus returns whether the button bar has focus.
func (bb *ButtonBar) HasFocus() bool {
	return bb.Box.HasFocus()
}

// TabBar renders a single row of tab labels with one active tab. Left and
// Right switch tabs, Down or Tab moves focus into the tab's content.
type TabBar struct {
	*tview.Box
	onSelect    func(index int)
	onDown      func()
	onEscape    func()
	labels      []string
	activeIndex int
}

// NewTabBar creates a tab bar over the given labels.
func NewTabBar(labels []string) *TabBar {
	return &TabBar{
		Box:    tview.NewBox(),
		labels: labels,
	}
}

// SetOnSelect sets the callback fired when the active tab changes.
func (tb *TabBar) SetOnSelect(fn func(index int)) *TabBar {
	tb.onSelect = fn
	return tb
}

// SetOnDown sets the callback for moving focus into the tab content.
func (tb *TabBar) SetOnDown(fn func()) *TabBar {
	tb.onDown = fn
	return tb
}

// SetOnEscape sets the callback for the Escape key.
func (tb *TabBar) SetOnEscape(fn func()) *TabBar {
	tb.onEscape = fn
	return tb
}

// ActiveTab returns the index of the active tab.
func (tb *TabBar) ActiveTab() int {
	return tb.activeIndex
}

// SelectTab activates the tab at index and fires the select callback.
func (tb *TabBar) SelectTab(index int) {
	if index < 0 || index >= len(tb.labels) || index == tb.activeIndex {
		return
	}
	tb.activeIndex = index
	if tb.onSelect != nil {
		tb.onSelect(index)
	}
}

// Draw renders the tab labels with the active one highlighted.
func (tb *TabBar) Draw(screen tcell.Screen) {
	tb.DrawForSubclass(screen, tb)

	x, y, width, _ := tb.GetInnerRect()
	if len(tb.labels) == 0 || width <= 0 {
		return
	}

	t := CurrentTheme()
	plainStyle := tcell.StyleDefault.
		Foreground(t.PrimaryTextColor).
		Background(t.PrimitiveBackgroundColor)
	activeStyle := tcell.StyleDefault.
		Foreground(t.PrimaryTextColor).
		Background(t.ContrastBackgroundColor)
	if tb.HasFocus() {
		activeStyle = tcell.StyleDefault.
			Foreground(t.InverseTextColor).
			Background(t.BorderColor)
	}
	sepStyle := tcell.StyleDefault.
		Foreground(t.BorderColor).
		Background(t.PrimitiveBackgroundColor)

	col := x
	put := func(r rune, style tcell.Style) {
		if col < x+width {
			screen.SetContent(col, y, r, nil, style)
			col++
		}
	}

	for i, label := range tb.labels {
		if i > 0 {
			put(' ', plainStyle)
			put(tcell.RuneVLine, sepStyle)
			put(' ', plainStyle)
		}
		style := plainStyle
		if i == tb.activeIndex {
			style = activeStyle
			put(' ', style)
		}
		for _, r := range label {
			put(r, style)
		}
		if i == tb.activeIndex {
			put(' ', style)
		}
	}
}

// InputHandler handles keyboard input for the tab bar.
func (tb *TabBar) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return tb.WrapInputHandler(func(event *tcell.EventKey, _ func(p tview.Primitive)) {
		if len(tb.labels) == 0 {
			return
		}

		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyBacktab:
			tb.SelectTab((tb.activeIndex - 1 + len(tb.labels)) % len(tb.labels))
		case tcell.KeyRight:
			tb.SelectTab((tb.activeIndex + 1) % len(tb.labels))
		case tcell.KeyDown, tcell.KeyTab, tcell.KeyEnter:
			if tb.onDown != nil {
				tb.onDown()
			}
		case tcell.KeyEscape:
			if tb.onEscape != nil {
				tb.onEscape()
			}
		default:
			// Ignore other keys
		}
	})
}

// checkItem stores the state of a single checkbox row.
type checkItem struct {
	label   string
	tooltip string
	checked bool
	enabled bool
}

// CheckList is a list of independent checkboxes. Items can be disabled,
// which dims them and makes Enter a no-op without clearing their check.
type CheckList struct {
	*tview.List
	onToggle     func(index int, checked bool)
	onEscape     func()
	helpCallback func(string)
	items        []checkItem
	hasFocus     bool
}

// NewCheckList creates an empty checkbox list.
func NewCheckList() *CheckList {
	list := tview.NewList()
	list.ShowSecondaryText(false)
	list.SetHighlightFullLine(false)
	list.SetSelectedStyle(tcell.StyleDefault)
	list.SetMainTextStyle(tcell.StyleDefault)

	cl := &CheckList{
		List:     list,
		items:    make([]checkItem, 0),
		hasFocus: true,
	}

	list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		cl.refreshAllItems(index)
	})

	list.SetFocusFunc(func() {
		cl.hasFocus = true
		cl.refreshAllItems(cl.GetCurrentItem())
	})

	list.SetBlurFunc(func() {
		cl.hasFocus = false
		cl.refreshAllItems(-1)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape && cl.onEscape != nil {
			cl.onEscape()
			return nil
		}
		return event
	})

	return cl
}

// SetOnToggle sets the callback fired after an item's check flips.
func (cl *CheckList) SetOnToggle(fn func(index int, checked bool)) *CheckList {
	cl.onToggle = fn
	return cl
}

// SetOnEscape sets the callback for the Escape key.
func (cl *CheckList) SetOnEscape(fn func()) *CheckList {
	cl.onEscape = fn
	return cl
}

// SetHelpCallback sets a callback that receives the tooltip of the
// currently selected item whenever the selection changes.
func (cl *CheckList) SetHelpCallback(fn func(string)) *CheckList {
	cl.helpCallback = fn
	return cl
}

// TriggerInitialHelp calls the help callback with the first item's tooltip.
func (cl *CheckList) TriggerInitialHelp() *CheckList {
	if cl.helpCallback != nil && len(cl.items) > 0 {
		cl.helpCallback(cl.items[0].tooltip)
	}
	return cl
}

// AddCheck appends a checkbox row. New rows start enabled.
func (cl *CheckList) AddCheck(label, tooltip string, checked bool) *CheckList {
	index := len(cl.items)
	selected := index == 0

	cl.items = append(cl.items, checkItem{
		label:   label,
		tooltip: tooltip,
		checked: checked,
		enabled: true,
	})

	cl.AddItem(cl.formatItem(index, selected), "", 0, func() {
		cl.toggle(index)
	})
	return cl
}

func (cl *CheckList) formatItem(index int, selected bool) string {
	item := cl.items[index]
	if !item.enabled {
		return formatDisabledToggle(item.checked, item.label)
	}
	return formatToggle(item.checked, item.label, selected)
}

func (cl *CheckList) toggle(index int) {
	if index < 0 || index >= len(cl.items) || !cl.items[index].enabled {
		return
	}
	cl.items[index].checked = !cl.items[index].checked
	cl.refreshAllItems(cl.GetCurrentItem())
	if cl.onToggle != nil {
		cl.onToggle(index, cl.items[index].checked)
	}
}

func (cl *CheckList) refreshAllItems(selectedIndex int) {
	for i := range cl.items {
		selected := cl.hasFocus && i == selectedIndex
		cl.SetItemText(i, cl.formatItem(i, selected), "")
	}
	if cl.helpCallback != nil && selectedIndex >= 0 && selectedIndex < len(cl.items) {
		cl.helpCallback(cl.items[selectedIndex].tooltip)
	}
}

// IsChecked reports whether the item at index is checked.
func (cl *CheckList) IsChecked(index int) bool {
	return index >= 0 && index < len(cl.items) && cl.items[index].checked
}

// IsEnabled reports whether the item at index is enabled.
func (cl *CheckList) IsEnabled(index int) bool {
	return index >= 0 && index < len(cl.items) && cl.items[index].enabled
}

// SetItemChecked sets an item's check without firing the toggle callback.
func (cl *CheckList) SetItemChecked(index int, checked bool) {
	if index < 0 || index >= len(cl.items) {
		return
	}
	cl.items[index].checked = checked
	cl.refreshAllItems(cl.GetCurrentItem())
}

// SetItemEnabled enables or disables an item. Disabling never clears the
// check, it only stops the item from being toggled.
func (cl *CheckList) SetItemEnabled(index int, enabled bool) {
	if index < 0 || index >= len(cl.items) {
		return
	}
	cl.items[index].enabled = enabled
	cl.refreshAllItems(cl.GetCurrentItem())
}

// ScrollIndicatorList wraps a tview.List and draws scroll indicators.
type ScrollIndicatorList struct {
	*tview.Box
	list   *tview.List
	offset int
}

// NewScrollIndicatorList creates a new list with scroll indicators.
func NewScrollIndicatorList() *ScrollIndicatorList {
	sil := &ScrollIndicatorList{
		Box:  tview.NewBox(),
		list: tview.NewList(),
	}
	sil.list.SetWrapAround(false)
	sil.list.SetSelectedFocusOnly(true)
	sil.list.ShowSecondaryText(false)
	return sil
}

// GetList returns the underlying tview.List for configuration.
func (sil *ScrollIndicatorList) GetList() *tview.List {
	return sil.list
}

// Draw renders the list with scroll indicators.
func (sil *ScrollIndicatorList) Draw(screen tcell.Screen) {
	sil.DrawForSubclass(screen, sil)

	x, y, width, height := sil.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	// Reserve 1 column for the indicators
	listWidth := width - 1
	if listWidth < 1 {
		listWidth = width
	}
	sil.list.SetRect(x, y, listWidth, height)
	sil.list.Draw(screen)

	itemCount := sil.list.GetItemCount()
	currentItem := sil.list.GetCurrentItem()

	if itemCount == 0 || itemCount <= height {
		return // No scrolling needed
	}

	sil.offset = currentItem - height/2
	if sil.offset < 0 {
		sil.offset = 0
	}
	if sil.offset > itemCount-height {
		sil.offset = itemCount - height
	}

	scrollX := x + width - 1
	arrowStyle := tcell.StyleDefault.Foreground(CurrentTheme().ContrastBackgroundColor)

	if sil.offset > 0 {
		screen.SetContent(scrollX, y, tcell.RuneUArrow, nil, arrowStyle)
	}
	if sil.offset+height < itemCount {
		screen.SetContent(scrollX, y+height-1, tcell.RuneDArrow, nil, arrowStyle)
	}
}

// Focus delegates focus to the underlying list.
func (sil *ScrollIndicatorList) Focus(delegate func(p tview.Primitive)) {
	delegate(sil.list)
}

// HasFocus returns whether the list has focus.
func (sil *ScrollIndicatorList) HasFocus() bool {
	return sil.list.HasFocus()
}

// InputHandler returns the list's input handler.
func (sil *ScrollIndicatorList) InputHandler() func(*tcell.EventKey, func(tview.Primitive)) {
	return sil.list.InputHandler()
}

// MouseHandler returns the list's mouse handler.
func (sil *ScrollIndicatorList) MouseHandler() func(
	tview.MouseAction, *tcell.EventMouse, func(tview.Primitive),
) (bool, tview.Primitive) {
	return sil.list.MouseHandler()
}
