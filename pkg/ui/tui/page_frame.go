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

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PageFrame provides a consistent page structure with:
// - Breadcrumb title in top border
// - Main content area
// - Dynamic help text line
// - ButtonBar footer
// - Keyboard hints in bottom border
type PageFrame struct {
	content tview.Primitive
	*tview.Box
	helpText  *tview.TextView
	buttonBar *ButtonBar
	app       *tview.Application
	onEscape  func()
}

// defaultHintsRunes returns the standard keyboard hints as runes for drawing.
// Uses tcell arrow runes for terminal compatibility.
func defaultHintsRunes() []rune {
	return []rune{
		tcell.RuneLArrow, tcell.RuneUArrow, tcell.RuneDArrow, tcell.RuneRArrow,
		':', ' ', 'N', 'a', 'v', 'i', 'g', 'a', 't', 'e', ' ',
		tcell.RuneVLine, ' ',
		'E', 'n', 't', 'e', 'r', ':', ' ', 'S', 'e', 'l', 'e', 'c', 't', ' ',
		tcell.RuneVLine, ' ',
		'E', 'S', 'C', ':', ' ', 'B', 'a', 'c', 'k',
	}
}

// NewPageFrame creates a new page frame with the given application reference.
func NewPageFrame(app *tview.Application) *PageFrame {
	pf := &PageFrame{
		Box: tview.NewBox(),
		app: app,
	}
	pf.SetBorder(true)

	pf.helpText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	return pf
}

// SetTitle sets the page title using breadcrumb-style path segments.
// Example: SetTitle("Options", "Audio") displays " Options > Audio "
func (pf *PageFrame) SetTitle(path ...string) *PageFrame {
	title := " " + strings.Join(path, " > ") + " "
	pf.Box.SetTitle(title)
	return pf
}

// SetContent sets the main content primitive.
func (pf *PageFrame) SetContent(content tview.Primitive) *PageFrame {
	pf.content = content
	return pf
}

// SetHelpText sets the dynamic help text displayed above the button bar.
func (pf *PageFrame) SetHelpText(text string) *PageFrame {
	pf.helpText.SetText(text)
	return pf
}

// SetButtonBar sets the button bar at the bottom of the frame.
// Automatically sets up Up navigation to return focus to content.
func (pf *PageFrame) SetButtonBar(bar *ButtonBar) *PageFrame {
	pf.buttonBar = bar
	bar.SetOnUp(pf.FocusContent)
	return pf
}

// SetOnEscape sets the callback when ESC is pressed.
func (pf *PageFrame) SetOnEscape(fn func()) *PageFrame {
	pf.onEscape = fn
	return pf
}

// Draw renders the page frame with bottom border hints.
func (pf *PageFrame) Draw(screen tcell.Screen) {
	pf.DrawForSubclass(screen, pf)

	x, y, width, height := pf.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	helpHeight := 1
	buttonHeight := 0
	if pf.buttonBar != nil {
		buttonHeight = 1
	}

	contentHeight := height - helpHeight - buttonHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if pf.content != nil {
		pf.content.SetRect(x, y, width, contentHeight)
		pf.content.Draw(screen)
	}

	pf.helpText.SetRect(x, y+contentHeight, width, helpHeight)
	pf.helpText.Draw(screen)

	if pf.buttonBar != nil {
		pf.buttonBar.SetRect(x, y+contentHeight+helpHeight, width, buttonHeight)
		pf.buttonBar.Draw(screen)
	}

	pf.drawBottomHints(screen)
}

// drawBottomHints renders the hints text in the bottom border.
func (pf *PageFrame) drawBottomHints(screen tcell.Screen) {
	outerX, outerY, outerWidth, outerHeight := pf.GetRect()
	if outerWidth <= 4 || outerHeight <= 2 {
		return
	}

	bottomY := outerY + outerHeight - 1

	hints := defaultHintsRunes()
	availableWidth := outerWidth - 4 // Leave space for corners and padding
	if len(hints) > availableWidth {
		hints = hints[:availableWidth]
	}

	startX := outerX + (outerWidth-len(hints))/2

	// Use border color (same as title) on primitive background
	t := CurrentTheme()
	style := tcell.StyleDefault.
		Foreground(t.BorderColor).
		Background(t.PrimitiveBackgroundColor)

	clearStart := startX - 1
	clearEnd := startX + len(hints) + 1
	for i := clearStart; i < clearEnd; i++ {
		screen.SetContent(i, bottomY, ' ', nil, style)
	}

	for i, r := range hints {
		screen.SetContent(startX+i, bottomY, r, nil, style)
	}
}

// Focus implements tview.Primitive.
func (pf *PageFrame) Focus(delegate func(p tview.Primitive)) {
	// Focus the content first, or button bar if no content
	if pf.content != nil {
		delegate(pf.content)
	} else if pf.buttonBar != nil {
		delegate(pf.buttonBar)
	}
}

// HasFocus implements tview.Primitive.
func (pf *PageFrame) HasFocus() bool {
	if pf.content != nil && pf.content.HasFocus() {
		return true
	}
	if pf.buttonBar != nil && pf.buttonBar.HasFocus() {
		return true
	}
	return false
}

// InputHandler implements tview.Primitive.
func (pf *PageFrame) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return pf.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if event.Key() == tcell.KeyEscape && pf.onEscape != nil {
			pf.onEscape()
			return
		}

		// Delegate to focused child
		if pf.content != nil && pf.content.HasFocus() {
			if handler := pf.content.InputHandler(); handler != nil {
				handler(event, setFocus)
			}
			return
		}

		if pf.buttonBar != nil && pf.buttonBar.HasFocus() {
			if handler := pf.buttonBar.InputHandler(); handler != nil {
				handler(event, setFocus)
			}
			return
		}
	})
}

// MouseHandler implements tview.Primitive.
func (pf *PageFrame) MouseHandler() func(
	action tview.MouseAction,
	event *tcell.EventMouse,
	setFocus func(p tview.Primitive),
) (consumed bool, capture tview.Primitive) {
	return pf.WrapMouseHandler(func(
		action tview.MouseAction,
		event *tcell.EventMouse,
		setFocus func(p tview.Primitive),
	) (consumed bool, capture tview.Primitive) {
		// Check button bar first
		if pf.buttonBar != nil {
			bx, by, bw, bh := pf.buttonBar.GetRect()
			mx, my := event.Position()
			if mx >= bx && mx < bx+bw && my >= by && my < by+bh {
				return pf.buttonBar.MouseHandler()(action, event, setFocus)
			}
		}

		// Then content
		if pf.content != nil {
			if handler := pf.content.MouseHandler(); handler != nil {
				return handler(action, event, setFocus)
			}
		}

		return false, nil
	})
}

// GetContent returns the content primitive.
func (pf *PageFrame) GetContent() tview.Primitive {
	return pf.content
}

// GetButtonBar returns the button bar.
func (pf *PageFrame) GetButtonBar() *ButtonBar {
	return pf.buttonBar
}

// FocusContent sets focus to the content primitive.
func (pf *PageFrame) FocusContent() {
	if pf.content != nil && pf.app != nil {
		pf.app.SetFocus(pf.content)
	}
}

// FocusButtonBar sets focus to the button bar.
func (pf *PageFrame) FocusButtonBar() {
	if pf.buttonBar != nil && pf.app != nil {
		pf.app.SetFocus(pf.buttonBar)
	}
}

// navigableList is the slice of the tview.List API the frame needs to wire
// list-to-button-bar navigation. Satisfied by tview.List and by the wrappers
// in this package which embed it.
type navigableList interface {
	GetCurrentItem() int
	GetItemCount() int
	GetInputCapture() func(event *tcell.EventKey) *tcell.EventKey
	SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) *tview.Box
}

// SetupContentToButtonNavigation sets up full wrap navigation between content
// and button bar. This should be called after setting content and button bar.
func (pf *PageFrame) SetupContentToButtonNavigation() {
	if pf.content == nil || pf.buttonBar == nil || pf.app == nil {
		return
	}

	if list, ok := pf.content.(navigableList); ok {
		originalCapture := list.GetInputCapture()
		list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			key := event.Key()
			if key == tcell.KeyTab {
				pf.FocusButtonBar()
				return nil
			}
			// Down on last item → button bar
			if key == tcell.KeyDown && list.GetCurrentItem() == list.GetItemCount()-1 {
				pf.FocusButtonBar()
				return nil
			}
			// Up on first item → button bar (wrap)
			if key == tcell.KeyUp && list.GetCurrentItem() == 0 {
				pf.FocusButtonBar()
				return nil
			}
			if key == tcell.KeyEscape && pf.onEscape != nil {
				pf.onEscape()
				return nil
			}
			if originalCapture != nil {
				return originalCapture(event)
			}
			return event
		})
	}

	pf.buttonBar.SetOnUp(pf.FocusContent)
	pf.buttonBar.SetOnDown(pf.FocusContent)
}
