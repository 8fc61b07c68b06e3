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
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/message"

	"github.com/IntermezzoProject/intermezzo/pkg/achievements"
	"github.com/IntermezzoProject/intermezzo/pkg/assets"
	"github.com/IntermezzoProject/intermezzo/pkg/audio"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
)

const (
	PageMain            = "main"
	PageConfig          = "config"
	PageSaveChooser     = "save_chooser"
	PageSaveDescription = "save_description"
	PageLoadChooser     = "load_chooser"
	PageHelp            = "help"
	PageAbout           = "about"
	PageModal           = "modal"
)

// Menu dialog dimensions; the dialog is centered on whatever terminal the
// overlay runs on.
const (
	MenuWidth  = 58
	MenuHeight = 17

	menuButtonWidth = 26
	menuTitle       = "Intermezzo"
)

// ErrMenuOpen is returned by Run when the session already shows a menu.
var ErrMenuOpen = errors.New("menu already open")

// Menu drives the in-game menu overlay for one running game session. All
// widget state belongs to the tview event loop.
type Menu struct {
	app       *tview.Application
	pages     *tview.Pages
	cfg       *config.Instance
	pl        platforms.Platform
	sess      *session.Session
	core      cores.Core
	ach       *achievements.Manager
	pr        *message.Printer
	mainFlex  *tview.Flex
	logoView  *tview.TextView
	helpView  *tview.TextView
	rtlButton *tview.Button

	bannerRows  int
	compactMode bool
	layoutReady bool
}

// helpTexter is implemented by cores that supply their own in-game help.
type helpTexter interface {
	HelpText(domain string) (string, error)
}

// Run opens the menu over the running game and blocks until it closes.
// Menu open/closed state is reported through the session so the service
// loop can pause input handling and pick up pending loads afterwards.
func Run(
	cfg *config.Instance,
	pl platforms.Platform,
	sess *session.Session,
	core cores.Core,
	ach *achievements.Manager,
) error {
	if core == nil {
		return errors.New("no running core to show the menu for")
	}
	if !sess.MenuOpened() {
		return ErrMenuOpen
	}
	defer sess.MenuClosed()

	playMenuFeedback(cfg, pl)

	return BuildAndRetry(func() (*tview.Application, error) {
		return BuildMenu(cfg, pl, sess, core, ach)
	})
}

// BuildMenu assembles a ready-to-run menu application.
func BuildMenu(
	cfg *config.Instance,
	pl platforms.Platform,
	sess *session.Session,
	core cores.Core,
	ach *achievements.Manager,
) (*tview.Application, error) {
	SetCurrentTheme(cfg.Theme())
	ApplyTheme(CurrentTheme())

	app := tview.NewApplication()
	app.EnableMouse(cfg.Mouse())

	m := NewMenu(app, cfg, pl, sess, core, ach)
	app.SetBeforeDrawFunc(m.reflow)
	app.SetRoot(m.Root(), true)

	// Lets the control API dismiss the menu remotely. MenuClosed clears
	// it again once the application loop exits.
	sess.SetMenuCloser(app.Stop)
	return app, nil
}

// NewMenu wires a menu over an existing application. Tests inject an
// application bound to a simulation screen here.
func NewMenu(
	app *tview.Application,
	cfg *config.Instance,
	pl platforms.Platform,
	sess *session.Session,
	core cores.Core,
	ach *achievements.Manager,
) *Menu {
	m := &Menu{
		app:   app,
		pages: tview.NewPages(),
		cfg:   cfg,
		pl:    pl,
		sess:  sess,
		core:  core,
		ach:   ach,
		pr:    NewPrinter(cfg.Language()),
	}
	m.buildMainPage()
	return m
}

// Root returns the primitive to install as the application root.
func (m *Menu) Root() tview.Primitive {
	return CenterWidget(MenuWidth, MenuHeight, m.pages)
}

// Close stops the application, ending Run.
func (m *Menu) Close() {
	m.app.Stop()
}

// playMenuFeedback plays the configured open-menu blip without blocking the
// UI. An empty path means the platform's embedded default sound.
func playMenuFeedback(cfg *config.Instance, pl platforms.Platform) {
	if !cfg.AudioFeedback() {
		return
	}
	path, enabled := cfg.FeedbackSoundPath(helpers.DataDir(pl))
	if !enabled {
		return
	}
	go func() {
		if err := pl.PlayAudio(path); err != nil {
			log.Debug().Err(err).Msg("menu feedback sound failed")
		}
	}()
}

// playFailFeedback plays the rejected-action blip. A custom feedback sound
// only replaces the open-menu blip, not this one.
func playFailFeedback(cfg *config.Instance) {
	if !cfg.AudioFeedback() {
		return
	}
	go func() {
		if err := audio.PlayWAVBytes(assets.FailSound); err != nil {
			log.Debug().Err(err).Msg("fail feedback sound failed")
		}
	}()
}

// setupButtonNavigation wires vertical wrap-around focus movement across
// the menu buttons. Escape anywhere acts like Resume.
func setupButtonNavigation(
	app *tview.Application,
	onEscape func(),
	buttons ...*tview.Button,
) {
	for i, button := range buttons {
		prevIndex := (i - 1 + len(buttons)) % len(buttons)
		nextIndex := (i + 1) % len(buttons)

		button.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			switch event.Key() { //nolint:exhaustive
			case tcell.KeyUp, tcell.KeyLeft, tcell.KeyBacktab:
				app.SetFocus(buttons[prevIndex])
				return event
			case tcell.KeyDown, tcell.KeyRight, tcell.KeyTab:
				app.SetFocus(buttons[nextIndex])
				return event
			case tcell.KeyEscape:
				onEscape()
				return nil
			}
			return event
		})
	}
}

// menuButton builds a main menu button whose help line updates on focus.
func (m *Menu) menuButton(label, help string, action func()) *tview.Button {
	btn := tview.NewButton(label).SetSelectedFunc(action)
	btn.SetFocusFunc(func() {
		m.helpView.SetText(help)
	})
	return btn
}

// rtlLabel returns the Return to Launcher label for the layout mode.
func (m *Menu) rtlLabel(compact bool) string {
	if compact {
		return m.pr.Sprintf("Launcher")
	}
	return m.pr.Sprintf("Return to Launcher")
}

// buildMainPage assembles the main menu: title area, version line, command
// buttons and the focus help line.
func (m *Menu) buildMainPage() {
	m.helpView = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	m.helpView.SetTextColor(CurrentTheme().SecondaryTextColor)

	m.logoView = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	m.logoView.SetTextColor(CurrentTheme().BorderColor)
	m.bannerRows = len(strings.Split(strings.TrimRight(assets.Banner, "\n"), "\n"))

	version := tview.NewTextView().SetTextAlign(tview.AlignCenter)
	version.SetTextColor(CurrentTheme().SecondaryTextColor)
	version.SetText(fmt.Sprintf("v%s (%s)", config.AppVersion, m.pl.ID()))

	resumeButton := m.menuButton(m.pr.Sprintf("Resume"),
		m.pr.Sprintf("Close the menu and keep playing"), m.Close)
	loadButton := m.menuButton(m.pr.Sprintf("Load"),
		m.pr.Sprintf("Load a saved game"), m.openLoadFlow)
	saveButton := m.menuButton(m.pr.Sprintf("Save"),
		m.pr.Sprintf("Save your game"), m.openSaveFlow)
	optionsButton := m.menuButton(m.pr.Sprintf("Options"),
		m.pr.Sprintf("Change game, audio and platform settings"), m.openConfigDialog)
	aboutButton := m.menuButton(m.pr.Sprintf("About"),
		m.pr.Sprintf("About Intermezzo"), m.showAbout)

	rtlHelp := m.pr.Sprintf("Exit to the game launcher")
	rtlSupported := m.core.HasFeature(cores.FeatureReturnToLauncher)
	if !rtlSupported {
		rtlHelp = m.pr.Sprintf("Not supported by the running core")
	}
	m.rtlButton = m.menuButton(m.rtlLabel(false), rtlHelp, m.returnToLauncher)
	m.rtlButton.SetDisabled(!rtlSupported)

	buttons := []*tview.Button{resumeButton, loadButton, saveButton, optionsButton}
	if m.core.HasFeature(cores.FeatureHelp) {
		buttons = append(buttons, m.menuButton(m.pr.Sprintf("Help"),
			m.pr.Sprintf("Show help for this game"), m.showHelp))
	}
	buttons = append(buttons, aboutButton, m.rtlButton)
	if m.pl.SupportsQuit() &&
		(!m.cfg.ReturnToLauncherAtExit() || !m.core.HasFeature(cores.FeatureReturnToLauncher)) {
		buttons = append(buttons, m.menuButton(m.pr.Sprintf("Quit"),
			m.pr.Sprintf("Exit the game"), m.quit))
	}

	setupButtonNavigation(m.app, m.Close, buttons...)

	buttonCol := tview.NewFlex().SetDirection(tview.FlexRow)
	for i, btn := range buttons {
		buttonCol.AddItem(btn, 1, 0, i == 0)
	}
	buttonRow := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(buttonCol, menuButtonWidth, 0, true).
		AddItem(nil, 0, 1, false)

	m.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(m.logoView, m.bannerRows, 0, false).
		AddItem(version, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(buttonRow, len(buttons), 0, true).
		AddItem(nil, 0, 1, false).
		AddItem(m.helpView, 1, 0, false)

	pageDefaults(PageMain, m.pages, m.mainFlex)
	if game := m.sess.ActiveGame(); game != nil && game.Name != "" {
		m.mainFlex.SetTitle(" " + game.Name + " ")
	} else {
		m.mainFlex.SetTitle(" " + menuTitle + " ")
	}

	// Title area content is owned by applyWidth; pick the wide layout until
	// the first draw reports a size.
	m.applyWidth(m.cfg.CompactWidth() + 1)
	m.layoutReady = false
}

// reflow runs before every draw and adapts the layout to the terminal
// width. Returning false lets the draw continue.
func (m *Menu) reflow(screen tcell.Screen) bool {
	width, _ := screen.Size()
	m.applyWidth(width)
	return false
}

// applyWidth swaps between the wide layout (banner logo, full labels) and
// the compact one (text title, short labels) around the configured
// threshold. The logo also honors the show_menu_logo setting.
func (m *Menu) applyWidth(width int) {
	compact := width <= m.cfg.CompactWidth()
	if m.layoutReady && compact == m.compactMode {
		return
	}
	m.compactMode = compact
	m.layoutReady = true

	if m.rtlButton != nil {
		m.rtlButton.SetLabel(m.rtlLabel(compact))
	}

	if m.cfg.ShowMenuLogo() && !compact {
		m.logoView.SetText(strings.TrimRight(assets.Banner, "\n"))
		m.mainFlex.ResizeItem(m.logoView, m.bannerRows, 0)
	} else {
		m.logoView.SetText(menuTitle)
		m.mainFlex.ResizeItem(m.logoView, 1, 0)
	}
}

// showMessage overlays a modal message with an OK button. then, when set,
// runs after dismissal. Every message modal reports a blocked or failed
// action, so this is also where the fail blip fires.
func (m *Menu) showMessage(text string, then func()) {
	playFailFeedback(m.cfg)
	modal := messageModal(text, "", func(_ int, _ string) {
		m.pages.RemovePage(PageModal)
		if then != nil {
			then()
		}
	}, true)
	m.pages.AddPage(PageModal, modal, true, true)
}

// textPage shows a full-page block of text with an OK button.
func (m *Menu) textPage(page, title, body string, align int) {
	back := func() {
		m.pages.RemovePage(page)
		m.pages.SwitchToPage(PageMain)
	}

	text := tview.NewTextView().SetTextAlign(align)
	text.SetText(body)

	frame := NewPageFrame(m.app).
		SetTitle(title).
		SetContent(text).
		SetOnEscape(back)
	bar := NewButtonBar().
		AddButton(m.pr.Sprintf("OK"), back).
		SetupNavigation(back)
	frame.SetButtonBar(bar)

	text.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive
		case tcell.KeyEscape, tcell.KeyEnter:
			back()
			return nil
		case tcell.KeyTab:
			frame.FocusButtonBar()
			return nil
		}
		return event
	})
	bar.SetOnUp(func() { m.app.SetFocus(text) })
	bar.SetOnDown(func() { m.app.SetFocus(text) })

	pageDefaults(page, m.pages, frame)
	m.app.SetFocus(text)
}

// coreHelpText asks the running core for its own help text, if it has any.
func (m *Menu) coreHelpText() string {
	ht, ok := m.core.(helpTexter)
	if !ok {
		return ""
	}
	text, err := ht.HelpText(m.sess.ActiveDomain())
	if err != nil {
		log.Warn().Err(err).Msg("core help text failed")
		return ""
	}
	return strings.TrimSpace(text)
}

// showHelp shows the core's help page, or the stock message when the core
// has none. The bundled menu help is appended below the core's text.
func (m *Menu) showHelp() {
	body := m.coreHelpText()
	if body == "" {
		m.showMessage(m.pr.Sprintf(
			"Sorry, this core does not currently provide in-game help. "+
				"Please consult the README for basic information, and for "+
				"instructions on how to obtain further assistance."), nil)
		return
	}
	if menuHelp, err := assets.GetHelpText(m.cfg.Language()); err == nil {
		body = body + "\n\n" + strings.TrimSpace(menuHelp)
	}
	m.textPage(PageHelp, m.pr.Sprintf("Help"), body, tview.AlignLeft)
}

// showAbout shows the product name, version, platform and license.
func (m *Menu) showAbout() {
	body := strings.TrimRight(assets.Banner, "\n") + "\n" +
		fmt.Sprintf("v%s (%s)", config.AppVersion, m.pl.ID()) + "\n\n" +
		"An in-game menu overlay for multi-game emulation platforms.\n\n" +
		"Copyright (c) 2025 The Intermezzo Project Contributors.\n" +
		"Released under the GNU General Public License v3.0 or later."
	m.textPage(PageAbout, m.pr.Sprintf("About"), body, tview.AlignCenter)
}

// returnToLauncher pushes the return event and closes the menu; the
// service loop shuts the core down and hands control to the launcher.
func (m *Menu) returnToLauncher() {
	m.sess.PushReturnToLauncher()
	m.Close()
}

// quit pushes the quit event and closes the menu.
func (m *Menu) quit() {
	m.sess.PushQuit()
	m.Close()
}
