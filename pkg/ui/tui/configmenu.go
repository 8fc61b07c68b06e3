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
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
)

// volumeSteps maps the 0..255 config range onto ten-percent cycle steps.
const volumeSteps = 10

func volumeOptions() []string {
	options := make([]string, volumeSteps+1)
	for i := range options {
		options[i] = fmt.Sprintf("%d%%", i*100/volumeSteps)
	}
	return options
}

func volumeToIndex(v int) int {
	if v < 0 {
		v = 0
	}
	if v > config.VolumeMax {
		v = config.VolumeMax
	}
	return (v*volumeSteps + config.VolumeMax/2) / config.VolumeMax
}

func indexToVolume(idx int) int {
	return idx * config.VolumeMax / volumeSteps
}

// configTab is one built tab of the config dialog.
type configTab struct {
	content tview.Primitive
	label   string
	page    string
}

// configDialog is the tabbed in-game options dialog. Tabs are computed at
// build time from the running core's features, the platform's entries and
// the achievement set bound to the game; nothing is persisted until OK.
type configDialog struct {
	menu          *Menu
	tabBar        *TabBar
	tabPages      *tview.Pages
	frame         *PageFrame
	buttons       *ButtonBar
	optionsWidget *ExtraOptionsWidget
	applyFns      []func()
	tabs          []configTab
	domain        string
}

// openConfigDialog builds and shows the config dialog for the active game.
func (m *Menu) openConfigDialog() {
	d := newConfigDialog(m)
	pageDefaults(PageConfig, m.pages, d.frame)
	m.app.SetFocus(d.frame)
}

func newConfigDialog(m *Menu) *configDialog {
	d := &configDialog{
		menu:   m,
		domain: m.sess.ActiveDomain(),
	}
	// The tab builders write help text through d.frame, so it must exist
	// before buildTabs runs.
	d.frame = NewPageFrame(m.app)
	d.buildTabs()

	labels := make([]string, len(d.tabs))
	d.tabPages = tview.NewPages()
	for i, tab := range d.tabs {
		labels[i] = tab.label
		d.tabPages.AddPage(tab.page, tab.content, true, i == 0)
	}

	d.tabBar = NewTabBar(labels).
		SetOnSelect(func(index int) {
			d.tabPages.SwitchToPage(d.tabs[index].page)
		}).
		SetOnDown(d.focusContent).
		SetOnEscape(d.cancel)

	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.tabBar, 1, 0, true).
		AddItem(d.tabPages, 0, 1, false)

	d.buttons = NewButtonBar().
		AddButton(m.pr.Sprintf("OK"), d.apply).
		AddButton(m.pr.Sprintf("Cancel"), d.cancel).
		SetupNavigation(d.cancel).
		SetOnDown(func() { m.app.SetFocus(d.tabBar) })

	d.frame.
		SetTitle(m.pr.Sprintf("Options")).
		SetContent(content).
		SetOnEscape(d.cancel)
	d.frame.SetButtonBar(d.buttons)
	d.buttons.SetOnUp(d.focusContent)

	if d.optionsWidget != nil {
		d.optionsWidget.Load()
	}
	d.triggerActiveTabHelp()

	return d
}

// triggerActiveTabHelp resets the help line to the first tab's selection.
// Every list fires its own initial help while building, so the last built
// tab would otherwise win.
func (d *configDialog) triggerActiveTabHelp() {
	if len(d.tabs) == 0 {
		return
	}
	switch content := d.tabs[0].content.(type) {
	case *ExtraOptionsWidget:
		content.TriggerInitialHelp()
	case *SettingsList:
		content.TriggerInitialHelp()
	}
}

// buildTabs computes the tab set in fixed order. Binding the achievement
// manager to the game's set happens here so the counts reflect it.
func (d *configDialog) buildTabs() {
	m := d.menu

	if m.core.HasFeature(cores.FeatureChangingOptionsDuringRuntime) {
		if widget := d.buildOptionsWidget(); widget != nil {
			d.optionsWidget = widget
			d.addTab(m.pr.Sprintf("Game"), "config_game", widget)
		}
	}

	d.addTab(m.pr.Sprintf("Audio"), "config_audio", d.buildAudioTab())

	if keymaps := m.core.Keymaps(d.domain); len(keymaps) > 0 {
		d.addTab(m.pr.Sprintf("Keymaps"), "config_keymaps", d.buildKeymapsTab(keymaps))
	}

	if entries := m.pl.SettingsEntries(m.cfg); len(entries) > 0 {
		d.addTab(m.pr.Sprintf("Backend"), "config_backend", d.buildBackendTab(entries))
	}

	if m.ach != nil {
		m.ach.SetActiveDomain(m.core.AchievementsID(d.domain))
		if m.ach.AchievementCount() > 0 {
			d.addTab(m.pr.Sprintf("Achievements"), "config_achievements", d.buildAchievementsTab())
		}
		if m.ach.StatCount() > 0 {
			d.addTab(m.pr.Sprintf("Statistics"), "config_statistics", d.buildStatisticsTab())
		}
	}
}

func (d *configDialog) addTab(label, page string, content tview.Primitive) {
	d.tabs = append(d.tabs, configTab{label: label, page: page, content: content})
}

// focusContent moves focus into the active tab's content.
func (d *configDialog) focusContent() {
	if len(d.tabs) == 0 {
		return
	}
	d.menu.app.SetFocus(d.tabs[d.tabBar.ActiveTab()].content)
}

func (d *configDialog) focusButtons() {
	d.menu.app.SetFocus(d.buttons)
}

// wireList hooks a tab's list into the dialog's focus cycle: Up from the
// first item returns to the tab bar, Tab or Down past the end reaches the
// OK/Cancel buttons, Escape cancels.
func (d *configDialog) wireList(list navigableList) {
	originalCapture := list.GetInputCapture()
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive
		case tcell.KeyUp:
			if list.GetCurrentItem() == 0 {
				d.menu.app.SetFocus(d.tabBar)
				return nil
			}
		case tcell.KeyTab:
			d.focusButtons()
			return nil
		case tcell.KeyDown:
			if list.GetCurrentItem() == list.GetItemCount()-1 {
				d.focusButtons()
				return nil
			}
		case tcell.KeyEscape:
			d.cancel()
			return nil
		}
		if originalCapture != nil {
			return originalCapture(event)
		}
		return event
	})
}

// wireTextView hooks a read-only tab into the focus cycle while leaving
// Up/Down to the view's own scrolling.
func (d *configDialog) wireTextView(view *tview.TextView) {
	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive
		case tcell.KeyTab:
			d.focusButtons()
			return nil
		case tcell.KeyBacktab:
			d.menu.app.SetFocus(d.tabBar)
			return nil
		case tcell.KeyEscape:
			d.cancel()
			return nil
		}
		return event
	})
}

// buildOptionsWidget builds the Game tab's extra options widget, or nil
// when the core declares none or declares them invalidly.
func (d *configDialog) buildOptionsWidget() *ExtraOptionsWidget {
	options := d.menu.core.ExtraOptions(d.domain)
	if len(options) == 0 {
		return nil
	}
	widget, err := NewExtraOptionsWidget(d.menu.cfg, d.domain, options)
	if err != nil {
		log.Error().Err(err).Str("core", d.menu.core.ID()).
			Msg("invalid extra options, dropping game tab")
		return nil
	}
	widget.SetHelpCallback(func(text string) { d.frame.SetHelpText(text) })
	widget.SetOnEscape(d.cancel)
	d.wireList(widget)
	return widget
}

// buildAudioTab builds the volume cycles and, when the core supports
// subtitle options, the subtitle controls. Values apply on OK only.
func (d *configDialog) buildAudioTab() tview.Primitive {
	m := d.menu
	cfg := m.cfg
	domain := d.domain

	options := volumeOptions()
	musicIdx := volumeToIndex(cfg.MusicVolume(domain))
	sfxIdx := volumeToIndex(cfg.SfxVolume(domain))
	speechIdx := volumeToIndex(cfg.SpeechVolume(domain))
	initialMusic, initialSfx, initialSpeech := musicIdx, sfxIdx, speechIdx

	list := NewSettingsList().
		SetDynamicHelpMode(true).
		SetHelpCallback(func(text string) { d.frame.SetHelpText(text) }).
		SetOnEscape(d.cancel)

	list.AddCycle(m.pr.Sprintf("Music volume"), m.pr.Sprintf("Background music volume"),
		options, &musicIdx, nil)
	list.AddCycle(m.pr.Sprintf("SFX volume"), m.pr.Sprintf("Sound effect volume"),
		options, &sfxIdx, nil)
	list.AddCycle(m.pr.Sprintf("Speech volume"), m.pr.Sprintf("Voice and dialogue volume"),
		options, &speechIdx, nil)

	cycleKeys := map[int]func(delta int){
		0: list.cycleStep(0),
		1: list.cycleStep(1),
		2: list.cycleStep(2),
	}

	subtitleOptions := m.core.HasFeature(cores.FeatureSubtitleOptions)
	subtitles := cfg.Subtitles(domain)
	speechMute := cfg.SpeechMute(domain)
	talkIdx := volumeToIndex(cfg.TalkSpeed(domain))
	initialSubtitles, initialMute, initialTalk := subtitles, speechMute, talkIdx
	if subtitleOptions {
		list.AddToggle(m.pr.Sprintf("Subtitles"),
			m.pr.Sprintf("Show subtitles for spoken dialogue"), &subtitles, nil)
		list.AddToggle(m.pr.Sprintf("Mute speech"),
			m.pr.Sprintf("Turn off all speech audio"), &speechMute, nil)
		list.AddCycle(m.pr.Sprintf("Talk speed"),
			m.pr.Sprintf("How long subtitles stay on screen"), options, &talkIdx, nil)
		cycleKeys[5] = list.cycleStep(5)
	}
	list.SetupCycleKeys(cycleKeys)
	list.TriggerInitialHelp()

	d.applyFns = append(d.applyFns, func() {
		if musicIdx != initialMusic {
			cfg.SetMusicVolume(domain, indexToVolume(musicIdx))
		}
		if sfxIdx != initialSfx {
			cfg.SetSfxVolume(domain, indexToVolume(sfxIdx))
		}
		if speechIdx != initialSpeech {
			cfg.SetSpeechVolume(domain, indexToVolume(speechIdx))
		}
		if !subtitleOptions {
			return
		}
		if subtitles != initialSubtitles {
			cfg.SetSubtitles(domain, subtitles)
		}
		if speechMute != initialMute {
			cfg.SetSpeechMute(domain, speechMute)
		}
		if talkIdx != initialTalk {
			cfg.SetTalkSpeed(domain, indexToVolume(talkIdx))
		}
	})

	d.wireList(list)
	return list
}

// buildKeymapsTab renders the core's declared bindings read-only.
func (d *configDialog) buildKeymapsTab(keymaps []cores.Keymap) tview.Primitive {
	t := CurrentTheme()
	var b strings.Builder
	for i, km := range keymaps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]%s[-]\n", t.AccentColorName, km.Label)
		for _, action := range km.Actions {
			fmt.Fprintf(&b, "  %s: %s\n", action.Label, strings.Join(action.Keys, ", "))
		}
	}

	view := tview.NewTextView().SetDynamicColors(true)
	view.SetText(strings.TrimRight(b.String(), "\n"))
	d.wireTextView(view)
	return view
}

// buildBackendTab renders the platform's declarative settings entries.
// Toggle and cycle values apply on OK; actions fire immediately.
func (d *configDialog) buildBackendTab(entries []platforms.SettingsEntry) tview.Primitive {
	list := NewSettingsList().
		SetDynamicHelpMode(true).
		SetHelpCallback(func(text string) { d.frame.SetHelpText(text) }).
		SetOnEscape(d.cancel)

	cycleKeys := make(map[int]func(delta int))

	for _, entry := range entries {
		switch entry.Kind {
		case platforms.EntryToggle:
			pending, _ := strconv.ParseBool(entry.Get())
			initial := pending
			valueRef := &pending
			list.AddToggle(entry.Label, entry.HelpText, valueRef, nil)
			d.applyFns = append(d.applyFns, func() {
				if *valueRef == initial {
					return
				}
				if err := entry.Set(strconv.FormatBool(*valueRef)); err != nil {
					log.Error().Err(err).Str("key", entry.Key).Msg("backend setting failed")
				}
			})
		case platforms.EntryCycle:
			if len(entry.Options) == 0 {
				continue
			}
			idx := 0
			for j, opt := range entry.Options {
				if opt == entry.Get() {
					idx = j
					break
				}
			}
			initial := idx
			idxRef := &idx
			itemIndex := list.GetItemCount()
			list.AddCycle(entry.Label, entry.HelpText, entry.Options, idxRef, nil)
			cycleKeys[itemIndex] = list.cycleStep(itemIndex)
			d.applyFns = append(d.applyFns, func() {
				if *idxRef == initial {
					return
				}
				if err := entry.Set(entry.Options[*idxRef]); err != nil {
					log.Error().Err(err).Str("key", entry.Key).Msg("backend setting failed")
				}
			})
		case platforms.EntryAction:
			list.AddAction(entry.Label, entry.HelpText, func() {
				if err := entry.Set(""); err != nil {
					log.Error().Err(err).Str("key", entry.Key).Msg("backend action failed")
				}
			})
		}
	}
	list.SetupCycleKeys(cycleKeys)
	list.TriggerInitialHelp()

	d.wireList(list)
	return list
}

// buildAchievementsTab shows unlock progress and the achievement list,
// with hidden achievements masked until unlocked.
func (d *configDialog) buildAchievementsTab() tview.Primitive {
	m := d.menu
	statuses := m.ach.Achievements()
	unlocked := m.ach.UnlockedCount()

	header := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	header.SetText(m.pr.Sprintf("Achievements unlocked: %d / %d", unlocked, len(statuses)) +
		"\n" + formatProgressBar(unlocked, len(statuses), 40))

	sil := NewScrollIndicatorList()
	list := sil.GetList()
	list.ShowSecondaryText(true)
	list.SetSecondaryTextColor(CurrentTheme().SecondaryTextColor)

	for _, st := range statuses {
		title := st.Title
		secondary := "  " + st.Description
		mark := "[ ] "
		if st.Unlocked {
			mark = "[*] "
			// Unlocks recorded while the board clock was unset carry an
			// epoch date not worth showing.
			if helpers.IsClockReliable(st.UnlockedAt) {
				secondary += "  (" + st.UnlockedAt.Format("2006-01-02") + ")"
			}
		} else if st.Hidden {
			title = m.pr.Sprintf("Hidden achievement")
			secondary = ""
		}
		list.AddItem(mark+title, secondary, 0, nil)
	}

	d.wireList(list)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 2, 0, false).
		AddItem(sil, 0, 1, true)
}

// buildStatisticsTab shows the set's stats with their formatted values.
func (d *configDialog) buildStatisticsTab() tview.Primitive {
	var b strings.Builder
	for _, st := range d.menu.ach.Stats() {
		fmt.Fprintf(&b, "%s: %s\n", st.Label, st.FormatValue(st.Value))
	}

	view := tview.NewTextView()
	view.SetText(strings.TrimRight(b.String(), "\n"))
	d.wireTextView(view)
	return view
}

// apply persists the dialog: the options widget saves first, then the
// collected audio and backend appliers run, then the store is written and
// the saved option states sync back to the core's own configuration.
func (d *configDialog) apply() {
	if d.optionsWidget != nil {
		d.optionsWidget.Save()
	}
	for _, fn := range d.applyFns {
		fn()
	}
	if err := d.menu.cfg.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save config")
	}
	if d.optionsWidget != nil {
		if err := d.menu.core.SyncOptions(d.domain); err != nil {
			log.Warn().Err(err).Msg("failed to sync core options")
		}
	}
	d.close()
}

// cancel discards all pending changes.
func (d *configDialog) cancel() {
	d.close()
}

func (d *configDialog) close() {
	d.menu.pages.RemovePage(PageConfig)
	d.menu.pages.SwitchToPage(PageMain)
}
