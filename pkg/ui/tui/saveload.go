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
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
)

const slotTimeFormat = "2006-01-02 15:04"

// nextFreeSlot returns the smallest slot number not occupied by a state.
func nextFreeSlot(states []cores.SaveStateInfo) int {
	occupied := make(map[int]bool, len(states))
	for _, st := range states {
		occupied[st.Slot] = true
	}
	for slot := 0; ; slot++ {
		if !occupied[slot] {
			return slot
		}
	}
}

// fetchSaveStates lists the core's save states, treating errors as an empty
// list so the chooser still opens.
func (m *Menu) fetchSaveStates() []cores.SaveStateInfo {
	ctx, cancel := uiContext()
	defer cancel()
	states, err := m.core.SaveStates(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list save states")
		return nil
	}
	return states
}

// openSaveFlow runs the gating for the Save command and opens the slot
// chooser when the game is saveable right now.
func (m *Menu) openSaveFlow() {
	if !m.core.HasFeature(cores.FeatureSavingDuringRuntime) {
		m.showMessage(m.pr.Sprintf(
			"This game does not support saving from the menu. Use in-game interface"), nil)
		return
	}
	if ok, reason := m.core.CanSaveNow(); !ok {
		if reason == "" {
			reason = m.pr.Sprintf("This game cannot be saved at this time. Please try again later")
		}
		m.showMessage(reason, nil)
		return
	}
	m.openSaveChooser(m.fetchSaveStates())
}

// openLoadFlow runs the gating for the Load command and opens the slot
// chooser when the game is loadable right now.
func (m *Menu) openLoadFlow() {
	if !m.core.HasFeature(cores.FeatureLoadingDuringRuntime) {
		m.showMessage(m.pr.Sprintf(
			"This game does not support loading from the menu. Use in-game interface"), nil)
		return
	}
	if ok, reason := m.core.CanLoadNow(); !ok {
		if reason == "" {
			reason = m.pr.Sprintf("This game cannot be loaded at this time. Please try again later")
		}
		m.showMessage(reason, nil)
		return
	}
	m.openLoadChooser(m.fetchSaveStates())
}

// slotLabel renders a state's primary line: its description, or a plain
// slot number when the description is empty.
func (m *Menu) slotLabel(st cores.SaveStateInfo) string {
	if st.Description != "" {
		return st.Description
	}
	return m.pr.Sprintf("Slot %d", st.Slot)
}

// slotSecondary renders a state's saved-at line, empty when the backend has
// no timestamp for it. Timestamps from an unset clock (RTC-less boards boot
// at epoch) are treated as missing.
func (m *Menu) slotSecondary(st cores.SaveStateInfo) string {
	if st.SavedAt.IsZero() || !helpers.IsClockReliable(st.SavedAt) {
		return ""
	}
	return "  " + m.pr.Sprintf("Saved: %s", st.SavedAt.Format(slotTimeFormat))
}

// chooserList builds the shared chooser list chrome.
func (m *Menu) chooserList() (*ScrollIndicatorList, *tview.List) {
	sil := NewScrollIndicatorList()
	inner := sil.GetList()
	inner.ShowSecondaryText(true)
	inner.SetSecondaryTextColor(CurrentTheme().SecondaryTextColor)
	return sil, inner
}

// chooserFrame wraps a chooser list in a PageFrame with a Cancel button.
func (m *Menu) chooserFrame(title string, sil *ScrollIndicatorList, inner *tview.List, onCancel func()) *PageFrame {
	frame := NewPageFrame(m.app).
		SetTitle(title).
		SetContent(sil).
		SetOnEscape(onCancel)
	if game := m.sess.ActiveGame(); game != nil {
		frame.SetHelpText(game.Name)
	}

	bar := NewButtonBar().
		AddButton(m.pr.Sprintf("Cancel"), onCancel).
		SetupNavigation(onCancel)
	frame.SetButtonBar(bar)

	inner.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			onCancel()
			return nil
		case tcell.KeyTab:
			frame.FocusButtonBar()
			return nil
		default:
			return event
		}
	})

	return frame
}

// openSaveChooser shows existing slots plus a fresh one. Picking a slot
// moves on to the description prompt; cancelling returns to the main menu.
func (m *Menu) openSaveChooser(states []cores.SaveStateInfo) {
	cancel := func() {
		m.pages.RemovePage(PageSaveChooser)
		m.pages.SwitchToPage(PageMain)
	}

	sil, inner := m.chooserList()

	newSlot := nextFreeSlot(states)
	inner.AddItem(m.pr.Sprintf("New slot"), "  "+m.pr.Sprintf("Slot %d", newSlot), 0, func() {
		m.openSaveDescription(newSlot, "")
	})
	for _, st := range states {
		slot := st.Slot
		desc := st.Description
		inner.AddItem(m.slotLabel(st), m.slotSecondary(st), 0, func() {
			m.openSaveDescription(slot, desc)
		})
	}

	frame := m.chooserFrame(m.pr.Sprintf("Save game:"), sil, inner, cancel)
	pageDefaults(PageSaveChooser, m.pages, frame)
	m.app.SetFocus(frame)
}

// openSaveDescription prompts for the slot's description, pre-filled when
// overwriting. Enter or OK saves, Escape or Cancel returns to the chooser.
func (m *Menu) openSaveDescription(slot int, initial string) {
	back := func() {
		m.pages.RemovePage(PageSaveDescription)
		m.pages.SwitchToPage(PageSaveChooser)
	}

	field := setupInputFieldFocus(tview.NewInputField().
		SetLabel(m.pr.Sprintf("Description:") + " ").
		SetText(initial))
	confirm := func() {
		m.performSave(slot, field.GetText())
	}
	field.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			confirm()
		case tcell.KeyEscape:
			back()
		default:
		}
	})

	bar := NewButtonBar().
		AddButton(m.pr.Sprintf("OK"), confirm).
		AddButton(m.pr.Sprintf("Cancel"), back).
		SetupNavigation(back)

	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 1, 0, false).
		AddItem(field, 1, 0, true).
		AddItem(nil, 0, 1, false)

	frame := NewPageFrame(m.app).
		SetTitle(m.pr.Sprintf("Save game:"), m.pr.Sprintf("Slot %d", slot)).
		SetContent(content).
		SetOnEscape(back)
	frame.SetButtonBar(bar)

	field.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab || event.Key() == tcell.KeyDown {
			frame.FocusButtonBar()
			return nil
		}
		return event
	})
	bar.SetOnUp(func() { m.app.SetFocus(field) })
	bar.SetOnDown(func() { m.app.SetFocus(field) })

	pageDefaults(PageSaveDescription, m.pages, frame)
	m.app.SetFocus(field)
}

// performSave writes the state and closes the menu after the attempt,
// success or failure alike. An empty description falls back to the core's
// default for the slot.
func (m *Menu) performSave(slot int, description string) {
	if description == "" {
		description = m.core.DefaultSaveDescription(slot)
	}

	ctx, cancel := uiContext()
	defer cancel()
	if err := m.core.SaveState(ctx, slot, description); err != nil {
		log.Error().Err(err).Int("slot", slot).Msg("save state failed")
		m.showMessage(m.pr.Sprintf(
			"Failed to save game (%s)! Please consult the README for basic information, "+
				"and for instructions on how to obtain further assistance.", err.Error()),
			m.Close)
		return
	}

	m.sess.PushStateSaved(slot, description)
	m.Close()
}

// openLoadChooser lists existing slots. A confirmed pick records the slot
// for the service to load and closes the menu; cancelling records the
// no-slot marker and stays open.
func (m *Menu) openLoadChooser(states []cores.SaveStateInfo) {
	cancel := func() {
		m.sess.SetGameToLoadSlot(session.NoLoadSlot)
		m.pages.RemovePage(PageLoadChooser)
		m.pages.SwitchToPage(PageMain)
	}

	sil, inner := m.chooserList()

	for _, st := range states {
		slot := st.Slot
		inner.AddItem(m.slotLabel(st), m.slotSecondary(st), 0, func() {
			m.performLoad(slot)
		})
	}
	if len(states) == 0 {
		inner.AddItem(m.pr.Sprintf("(no saved games)"), "", 0, nil)
	}

	frame := m.chooserFrame(m.pr.Sprintf("Load game:"), sil, inner, cancel)
	pageDefaults(PageLoadChooser, m.pages, frame)
	m.app.SetFocus(frame)
}

// performLoad records the slot to load and closes the menu. The actual
// state load happens outside the menu once it has closed.
func (m *Menu) performLoad(slot int) {
	m.sess.SetGameToLoadSlot(slot)
	m.Close()
}
