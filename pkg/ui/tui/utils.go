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
	"context"
	"time"

	"github.com/rivo/tview"
)

// UIRequestTimeout bounds every core call made from the menu so a stuck
// backend cannot freeze the whole interface.
const UIRequestTimeout = 5 * time.Second

func uiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), UIRequestTimeout)
}

// CenterWidget wraps p so it renders centered on screen at a fixed size.
func CenterWidget(width, height int, p tview.Primitive) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

// PrimitiveWithSetBorder covers the tview widgets which embed Box and so
// can draw a border around themselves.
type PrimitiveWithSetBorder interface {
	tview.Primitive
	SetBorder(show bool) *tview.Box
}

// pageDefaults applies the standard dialog chrome to a widget and makes it
// the visible page.
func pageDefaults[S PrimitiveWithSetBorder](name string, pages *tview.Pages, widget S) S {
	widget.SetBorder(true)
	pages.AddAndSwitchToPage(name, widget, true)
	return widget
}

// messageModal builds a plain message box. With withButton the modal gets a
// single OK button wired to action, otherwise the caller dismisses it.
func messageModal(text, title string, action func(buttonIndex int, buttonLabel string), withButton bool) *tview.Modal {
	modal := tview.NewModal().SetText(text)
	modal.SetTitle(title)
	if withButton {
		modal.AddButtons([]string{"OK"})
		modal.SetDoneFunc(action)
	}
	return modal
}

// BuildAndRetry runs a freshly built application and, on platforms that
// support it, retries on a fallback terminal when the first run fails.
func BuildAndRetry(builder func() (*tview.Application, error)) error {
	app, err := builder()
	if err != nil {
		return err
	}
	return tryRunApp(app, builder)
}
