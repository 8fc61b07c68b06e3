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
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IntermezzoProject/intermezzo/pkg/achievements"
	"github.com/IntermezzoProject/intermezzo/pkg/assets"
	"github.com/IntermezzoProject/intermezzo/pkg/audio"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
	"github.com/IntermezzoProject/intermezzo/pkg/testing/mocks"
)

var allCoreFeatures = []cores.Feature{
	cores.FeatureHelp,
	cores.FeatureSavingDuringRuntime,
	cores.FeatureLoadingDuringRuntime,
	cores.FeatureChangingOptionsDuringRuntime,
	cores.FeatureSubtitleOptions,
	cores.FeatureReturnToLauncher,
}

// menuMocks bundles everything a Menu needs. The core answers HasFeature
// only for the features passed to newMenuMocks; anything else a test needs
// (SupportsQuit, SettingsEntries, save state calls) it registers itself.
type menuMocks struct {
	cfg    *config.Instance
	pl     *mocks.MockPlatform
	core   *mocks.MockCore
	sess   *session.Session
	events <-chan session.Event
	ach    *achievements.Manager
}

func newMenuMocks(t *testing.T, features ...cores.Feature) *menuMocks {
	t.Helper()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	pl := mocks.NewMockPlatform()
	pl.On("ID").Return("mock-platform")

	enabled := make(map[cores.Feature]bool, len(features))
	for _, f := range features {
		enabled[f] = true
	}
	core := mocks.NewMockCore()
	for _, f := range allCoreFeatures {
		core.On("HasFeature", f).Return(enabled[f])
	}

	sess, events := session.NewSession(pl, clockwork.NewFakeClock())
	sess.SetCore(core)
	sess.SetActiveGame(&platforms.GameInfo{
		Domain: "snes/super-game",
		Name:   "Super Game",
		CoreID: "mock-core",
	})

	return &menuMocks{
		cfg:    cfg,
		pl:     pl,
		core:   core,
		sess:   sess,
		events: events,
	}
}

func (mm *menuMocks) newMenu(app *tview.Application) *Menu {
	return NewMenu(app, mm.cfg, mm.pl, mm.sess, mm.core, mm.ach)
}

// drainEvents empties the session event buffer and returns what was in it.
func (mm *menuMocks) drainEvents() []session.Event {
	var out []session.Event
	for {
		select {
		case ev := <-mm.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventTypes(events []session.Event) []session.EventType {
	out := make([]session.EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func TestRunRequiresCore(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)

	err := Run(mm.cfg, mm.pl, mm.sess, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no running core")
	assert.False(t, mm.sess.IsMenuOpen(),
		"a refused menu must not flip the session state")
}

func TestRunRefusesSecondMenu(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	require.True(t, mm.sess.MenuOpened())
	mm.drainEvents()

	err := Run(mm.cfg, mm.pl, mm.sess, mm.core, nil)
	require.ErrorIs(t, err, ErrMenuOpen)
	assert.True(t, mm.sess.IsMenuOpen(),
		"the already-open menu stays marked open")
	assert.Empty(t, mm.drainEvents())
}

func TestPlayMenuFeedbackDisabled(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)
	cfg.SetAudioFeedback(false)

	pl := mocks.NewMockPlatform()
	playMenuFeedback(cfg, pl)

	pl.AssertNotCalled(t, "PlayAudio", mock.Anything)
}

func TestPlayMenuFeedbackDefaultSound(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	played := make(chan struct{})
	pl := mocks.NewMockPlatform()
	pl.On("Settings").Return(platforms.Settings{DataDir: "/data"})
	pl.On("PlayAudio", "").Run(func(mock.Arguments) {
		close(played)
	}).Return(nil)

	playMenuFeedback(cfg, pl)

	select {
	case <-played:
	case <-time.After(time.Second):
		t.Fatal("expected the embedded default sound to play")
	}
	assert.Equal(t, []string{""}, pl.GetPlayedAudio(),
		"one play, empty path selects the embedded sound")
}

func TestPlayMenuFeedbackCustomSound(t *testing.T) {
	t.Parallel()

	defaults := config.BaseDefaults
	sound := "sounds/blip.ogg"
	defaults.Audio.FeedbackSound = &sound
	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)

	played := make(chan struct{})
	pl := mocks.NewMockPlatform()
	pl.On("Settings").Return(platforms.Settings{DataDir: "/data"})
	pl.On("PlayAudio", filepath.Join("/data", "sounds", "blip.ogg")).
		Run(func(mock.Arguments) { close(played) }).
		Return(nil)

	playMenuFeedback(cfg, pl)

	select {
	case <-played:
	case <-time.After(time.Second):
		t.Fatal("expected the custom sound to play, resolved against the data dir")
	}
}

func TestPlayMenuFeedbackEmptyPathDisables(t *testing.T) {
	t.Parallel()

	defaults := config.BaseDefaults
	sound := ""
	defaults.Audio.FeedbackSound = &sound
	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)

	pl := mocks.NewMockPlatform()
	pl.On("Settings").Return(platforms.Settings{DataDir: "/data"})

	playMenuFeedback(cfg, pl)

	pl.AssertNotCalled(t, "PlayAudio", mock.Anything)
}

// capturePlayer hands WAV payloads sent to the package audio player to a
// channel.
type capturePlayer struct {
	wav chan []byte
}

func (p *capturePlayer) PlayWAVBytes(data []byte) error {
	p.wav <- data
	return nil
}

func (*capturePlayer) PlayFile(string) error { return nil }
func (*capturePlayer) ClearFileCache()       {}

// No t.Parallel: swaps the package audio player.
func TestPlayFailFeedback(t *testing.T) {
	played := make(chan []byte, 1)
	audio.SetPlayer(&capturePlayer{wav: played})
	defer audio.SetPlayer(discardPlayer{})

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	playFailFeedback(cfg)
	select {
	case data := <-played:
		assert.Equal(t, assets.FailSound, data)
	case <-time.After(time.Second):
		t.Fatal("expected the fail sound to play")
	}

	cfg.SetAudioFeedback(false)
	playFailFeedback(cfg)
	select {
	case <-played:
		t.Fatal("nothing should play with audio feedback off")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMenuShowsCoreCommands(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 80, 24)

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Resume", time.Second))

	screen := runner.Screen()
	assert.True(t, screen.ContainsText("Load"))
	assert.True(t, screen.ContainsText("Save"))
	assert.True(t, screen.ContainsText("Options"))
	assert.True(t, screen.ContainsText("About"))
	assert.True(t, screen.ContainsText("Return to Launcher"))
	assert.False(t, screen.ContainsText("Help"),
		"no Help button without the help feature")
	assert.False(t, screen.ContainsText("Quit"),
		"no Quit button when the platform cannot quit")
	assert.True(t, screen.ContainsText("Close the menu and keep playing"),
		"the focused Resume button drives the help line")

	runner.Stop()
}

func TestMenuShowsHelpButtonWithFeature(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 80, 24)

	mm := newMenuMocks(t, cores.FeatureHelp)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Help", time.Second))

	runner.Stop()
}

func TestMenuFullyCapableCore(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 80, 24)

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	// Toolkit defaults stand in for a platform and core that can do
	// everything, so every optional button must show up at once.
	pl := mocks.NewMockPlatform()
	pl.SetupBasicMock()
	core := mocks.NewMockCore()
	core.SetupBasicMock()

	sess, _ := session.NewSession(pl, clockwork.NewFakeClock())
	sess.SetCore(core)
	sess.SetActiveGame(&platforms.GameInfo{
		Domain: "snes/super-game",
		Name:   "Super Game",
		CoreID: "mock-core",
	})

	m := NewMenu(runner.App(), cfg, pl, sess, core, nil)
	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Resume", time.Second))

	screen := runner.Screen()
	assert.True(t, screen.ContainsText("Save"))
	assert.True(t, screen.ContainsText("Load"))
	assert.True(t, screen.ContainsText("Options"))
	assert.True(t, screen.ContainsText("Help"))
	assert.True(t, screen.ContainsText("Return to Launcher"))
	assert.True(t, screen.ContainsText("Quit"))

	runner.Stop()
}

func TestMenuQuitButton(t *testing.T) {
	t.Parallel()

	t.Run("platform can quit", func(t *testing.T) {
		t.Parallel()
		runner := NewTestAppRunner(t, 80, 24)

		mm := newMenuMocks(t)
		mm.pl.On("SupportsQuit").Return(true)
		m := mm.newMenu(runner.App())

		runner.Start(m.Root())
		require.True(t, runner.WaitForText("Quit", time.Second))
		runner.Stop()
	})

	t.Run("launcher at exit hides quit", func(t *testing.T) {
		t.Parallel()
		runner := NewTestAppRunner(t, 80, 24)

		mm := newMenuMocks(t, cores.FeatureReturnToLauncher)
		mm.cfg.SetReturnToLauncherAtExit(true)
		mm.pl.On("SupportsQuit").Return(true)
		m := mm.newMenu(runner.App())

		runner.Start(m.Root())
		require.True(t, runner.WaitForText("Return to Launcher", time.Second))
		assert.False(t, runner.Screen().ContainsText("Quit"),
			"returning to the launcher replaces quitting")
		runner.Stop()
	})
}

func TestMenuDisabledLauncherButtonHelp(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 80, 24)

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Resume", time.Second))

	// Up from the first button wraps to the last one, the disabled
	// Return to Launcher.
	runner.Screen().InjectArrowUp()
	require.True(t, runner.WaitForText("Not supported by the running core", time.Second))

	runner.Stop()
}

func TestMenuTitleShowsGameName(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 100, 24)

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText(" Super Game ", time.Second))
	assert.False(t, runner.Screen().ContainsText("Intermezzo"),
		"the product name only appears when no game name is known")

	runner.Stop()
}

func TestMenuTitleFallsBackToProductName(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 100, 24)

	mm := newMenuMocks(t)
	mm.sess.SetActiveGame(nil)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText(" Intermezzo ", time.Second))

	runner.Stop()
}

func TestMenuVersionLine(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 80, 24)

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("v"+config.AppVersion+" (mock-platform)", time.Second))

	runner.Stop()
}

func TestMenuWideLayout(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 100, 24)

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())
	runner.App().SetBeforeDrawFunc(m.reflow)

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Resume", time.Second))

	assert.True(t, runner.Screen().ContainsText(`|___||_||_|`),
		"wide terminals get the banner logo")
	assert.True(t, runner.Screen().ContainsText("Return to Launcher"))

	runner.Stop()
}

func TestMenuCompactLayout(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 50, 24)

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())
	runner.App().SetBeforeDrawFunc(m.reflow)

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Resume", time.Second))

	screen := runner.Screen()
	assert.False(t, screen.ContainsText(`|___||_||_|`),
		"no banner on narrow terminals")
	assert.True(t, screen.ContainsText("Intermezzo"),
		"the banner is replaced by the text title")
	assert.True(t, screen.ContainsText("Launcher"))
	assert.False(t, screen.ContainsText("Return to Launcher"),
		"the launcher button uses its short label")

	runner.Stop()
}

func TestApplyWidthSwapsLayout(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())

	m.applyWidth(50)
	assert.Equal(t, "Intermezzo", m.logoView.GetText(true))
	assert.Equal(t, "Launcher", m.rtlButton.GetLabel())

	m.applyWidth(100)
	assert.Contains(t, m.logoView.GetText(true), `|_ _|`)
	assert.Equal(t, "Return to Launcher", m.rtlButton.GetLabel())

	// Same mode twice is a no-op once the layout is live.
	m.logoView.SetText("sentinel")
	m.applyWidth(100)
	assert.Equal(t, "sentinel", m.logoView.GetText(true))

	m.applyWidth(50)
	assert.Equal(t, "Intermezzo", m.logoView.GetText(true))
}

func TestApplyWidthHonorsLogoSetting(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	mm.cfg.SetShowMenuLogo(false)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())

	m.applyWidth(100)
	assert.Equal(t, "Intermezzo", m.logoView.GetText(true),
		"the banner stays off when the logo setting is disabled")
}

func TestMenuGermanButtons(t *testing.T) {
	t.Parallel()

	runner := NewTestAppRunner(t, 80, 24)

	mm := newMenuMocks(t)
	mm.cfg.SetLanguage("de")
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(runner.App())

	runner.Start(m.Root())
	require.True(t, runner.WaitForText("Fortsetzen", time.Second))
	assert.True(t, runner.Screen().ContainsText("Speichern"))

	runner.Stop()
}

func TestShowMessageOverlaysModal(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())

	name, _ := m.pages.GetFrontPage()
	require.Equal(t, PageMain, name)

	m.showMessage("something went wrong", nil)

	name, _ = m.pages.GetFrontPage()
	assert.Equal(t, PageModal, name)
}

func TestShowAbout(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())

	m.showAbout()

	name, page := m.pages.GetFrontPage()
	require.Equal(t, PageAbout, name)

	frame, ok := page.(*PageFrame)
	require.True(t, ok)
	text, ok := frame.GetContent().(*tview.TextView)
	require.True(t, ok)

	body := text.GetText(true)
	assert.Contains(t, body, "v"+config.AppVersion)
	assert.Contains(t, body, "Copyright (c) 2025 The Intermezzo Project Contributors.")
	assert.Contains(t, body, "GNU General Public License")
}

// helpCore is a MockCore whose core provides its own help text.
type helpCore struct {
	*mocks.MockCore
	text string
	err  error
}

func (h *helpCore) HelpText(string) (string, error) {
	return h.text, h.err
}

func TestShowHelpWithoutCoreText(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t, cores.FeatureHelp)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())

	// The plain mock core has no help text interface at all.
	m.showHelp()

	name, _ := m.pages.GetFrontPage()
	assert.Equal(t, PageModal, name,
		"cores without help text get the stock message")
}

func TestShowHelpWithCoreText(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t, cores.FeatureHelp)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())
	m.core = &helpCore{MockCore: mm.core, text: "Use the foot to kick."}

	m.showHelp()

	name, page := m.pages.GetFrontPage()
	require.Equal(t, PageHelp, name)

	frame, ok := page.(*PageFrame)
	require.True(t, ok)
	text, ok := frame.GetContent().(*tview.TextView)
	require.True(t, ok)

	body := text.GetText(true)
	assert.Contains(t, body, "Use the foot to kick.")
	assert.Contains(t, body, "Navigation",
		"the bundled menu help is appended below the core's text")
}

func TestShowHelpCoreError(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t, cores.FeatureHelp)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())
	m.core = &helpCore{MockCore: mm.core, err: assert.AnError}

	m.showHelp()

	name, _ := m.pages.GetFrontPage()
	assert.Equal(t, PageModal, name,
		"a failing help call falls back to the stock message")
}

func TestReturnToLauncherPushesEvent(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(false)
	m := mm.newMenu(tview.NewApplication())
	mm.drainEvents()

	m.returnToLauncher()

	assert.Equal(t, []session.EventType{session.EventReturnToLauncher},
		eventTypes(mm.drainEvents()))
}

func TestQuitPushesEvent(t *testing.T) {
	t.Parallel()

	mm := newMenuMocks(t)
	mm.pl.On("SupportsQuit").Return(true)
	m := mm.newMenu(tview.NewApplication())
	mm.drainEvents()

	m.quit()

	assert.Equal(t, []session.EventType{session.EventQuit},
		eventTypes(mm.drainEvents()))
}
