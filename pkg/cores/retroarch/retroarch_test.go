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

package retroarch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/testing/mocks"
)

var testClockTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestConfig(t *testing.T) *config.Instance {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err, "test config should initialize")
	return cfg
}

// newTestCore builds an adapter on an in-memory filesystem and a fake clock.
// An empty addr is fine for tests that never touch the network.
func newTestCore(t *testing.T, addr string) (*Core, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	core := &Core{
		client:    NewCommandClient(addr),
		cfg:       newTestConfig(t),
		fs:        fs,
		clock:     clockwork.NewFakeClockAt(testClockTime),
		stateDir:  "/states",
		configDir: "/config",
	}
	return core, fs
}

func writeTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestNewCoreDefaults(t *testing.T) {
	t.Parallel()
	platform := mocks.NewMockPlatform()
	platform.On("Settings").Return(platforms.Settings{
		ConfigDir: "/config",
		StateDir:  "/states",
	})

	core := NewCore(newTestConfig(t), platform, nil)
	assert.Equal(t, CoreID, core.ID())
	assert.Equal(t, "RetroArch", core.Name())
	assert.Equal(t, "/states", core.stateDir)
	assert.Equal(t, "/config", core.configDir)
	assert.Equal(t, config.DefaultCoreAddr, core.client.Addr())
	assert.NotNil(t, core.clock, "nil clock should be replaced with the real one")
}

func TestHasFeature(t *testing.T) {
	t.Parallel()
	core, _ := newTestCore(t, "")

	tests := []struct {
		feature cores.Feature
		want    bool
	}{
		{cores.FeatureSavingDuringRuntime, true},
		{cores.FeatureLoadingDuringRuntime, true},
		{cores.FeatureChangingOptionsDuringRuntime, true},
		{cores.FeatureReturnToLauncher, true},
		{cores.FeatureHelp, false},
		{cores.FeatureSubtitleOptions, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, core.HasFeature(tt.feature),
			"feature %s", tt.feature)
	}
}

func TestCanSaveNow(t *testing.T) {
	t.Parallel()

	t.Run("playing", func(t *testing.T) {
		t.Parallel()
		_, addr := startFakeFrontend(t,
			statusReplier("GET_STATUS PLAYING snes9x,Super Game,crc32=0"))
		core, _ := newTestCore(t, addr)

		ok, reason := core.CanSaveNow()
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("paused still allows saving", func(t *testing.T) {
		t.Parallel()
		_, addr := startFakeFrontend(t,
			statusReplier("GET_STATUS PAUSED snes9x,Super Game,crc32=0"))
		core, _ := newTestCore(t, addr)

		ok, reason := core.CanSaveNow()
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("contentless", func(t *testing.T) {
		t.Parallel()
		_, addr := startFakeFrontend(t, statusReplier("GET_STATUS CONTENTLESS"))
		core, _ := newTestCore(t, addr)

		ok, reason := core.CanSaveNow()
		assert.False(t, ok)
		assert.Equal(t, reasonNoContent, reason)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		core, _ := newTestCore(t, "127.0.0.1:1")
		core.client.timeout = 100 * time.Millisecond

		ok, reason := core.CanSaveNow()
		assert.False(t, ok)
		assert.Equal(t, reasonCoreUnreachable, reason)
	})
}

func TestCanLoadNow(t *testing.T) {
	t.Parallel()
	_, addr := startFakeFrontend(t, statusReplier("GET_STATUS CONTENTLESS"))
	core, _ := newTestCore(t, addr)

	ok, reason := core.CanLoadNow()
	assert.False(t, ok)
	assert.Equal(t, reasonNoContent, reason)
}

func TestSaveStateRecordsIndex(t *testing.T) {
	t.Parallel()
	frontend, addr := startFakeFrontend(t,
		statusReplier("GET_STATUS PLAYING snes9x,Super Game,crc32=0"))
	core, _ := newTestCore(t, addr)

	err := core.SaveState(context.Background(), 1, "Before the boss")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		for _, command := range frontend.commands() {
			if command == "SAVE_STATE_SLOT 1" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond, "save command should reach the frontend")

	entry, ok := core.loadSlotIndex().entry("Super Game", 1)
	require.True(t, ok, "save should record a slot index entry")
	assert.Equal(t, "Before the boss", entry.Description)
	assert.Equal(t, testClockTime, entry.SavedAt.UTC())
}

func TestSaveStateNoContent(t *testing.T) {
	t.Parallel()
	frontend, addr := startFakeFrontend(t, statusReplier("GET_STATUS CONTENTLESS"))
	core, _ := newTestCore(t, addr)

	err := core.SaveState(context.Background(), 1, "nope")
	require.ErrorIs(t, err, ErrNoContent)

	for _, command := range frontend.commands() {
		assert.NotContains(t, command, cmdSaveStateSlot,
			"no save command should be sent without content")
	}
}

func TestLoadState(t *testing.T) {
	t.Parallel()
	frontend, addr := startFakeFrontend(t, nil)
	core, _ := newTestCore(t, addr)

	err := core.LoadState(context.Background(), 7)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		commands := frontend.commands()
		return len(commands) == 1 && commands[0] == "LOAD_STATE_SLOT 7"
	}, time.Second, 10*time.Millisecond)
}

func TestQuit(t *testing.T) {
	t.Parallel()
	frontend, addr := startFakeFrontend(t, nil)
	core, _ := newTestCore(t, addr)

	err := core.Quit(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		commands := frontend.commands()
		return len(commands) == 1 && commands[0] == "QUIT"
	}, time.Second, 10*time.Millisecond)
}

func TestSaveStatesMergesIndex(t *testing.T) {
	t.Parallel()
	_, addr := startFakeFrontend(t,
		statusReplier("GET_STATUS PLAYING snes9x,Super Game,crc32=0"))
	core, fs := newTestCore(t, addr)

	writeTestFile(t, fs, "/states/Super Game.state", "state0")
	writeTestFile(t, fs, "/states/Super Game.state2", "state2")
	writeTestFile(t, fs, "/states/Super Game.state.auto", "autosave")
	writeTestFile(t, fs, "/states/Other Game.state", "other")

	mtime := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/states/Super Game.state", mtime, mtime))

	require.NoError(t, core.recordSlot("Super Game", 2, "Before the boss"))

	infos, err := core.SaveStates(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2, "autosave and other content should be excluded")

	assert.Equal(t, 0, infos[0].Slot)
	assert.Empty(t, infos[0].Description,
		"a slot missing from the index has no description")
	assert.Equal(t, mtime, infos[0].SavedAt.UTC(),
		"file mtime stands in when the index has no entry")

	assert.Equal(t, 2, infos[1].Slot)
	assert.Equal(t, "Before the boss", infos[1].Description)
	assert.Equal(t, testClockTime, infos[1].SavedAt.UTC(),
		"index save time should win over file mtime")
}

func TestSaveStatesNoContent(t *testing.T) {
	t.Parallel()
	_, addr := startFakeFrontend(t, statusReplier("GET_STATUS CONTENTLESS"))
	core, _ := newTestCore(t, addr)

	_, err := core.SaveStates(context.Background())
	require.ErrorIs(t, err, ErrNoContent)
}

func TestSaveStatesEmptyStateDir(t *testing.T) {
	t.Parallel()
	_, addr := startFakeFrontend(t,
		statusReplier("GET_STATUS PLAYING snes9x,Fresh Game,crc32=0"))
	core, _ := newTestCore(t, addr)

	infos, err := core.SaveStates(context.Background())
	require.NoError(t, err, "a missing state directory is not an error")
	assert.Empty(t, infos)
}

func TestDefaultSaveDescription(t *testing.T) {
	t.Parallel()
	core, _ := newTestCore(t, "")
	assert.Equal(t, "Slot 3 - 2025-06-01 12:00", core.DefaultSaveDescription(3))
}

func TestDefaultSaveDescriptionUnsetClock(t *testing.T) {
	t.Parallel()
	core, _ := newTestCore(t, "")
	core.clock = clockwork.NewFakeClockAt(time.Unix(300, 0))

	assert.Equal(t, "Slot 3", core.DefaultSaveDescription(3),
		"an epoch clock should not be stamped into the description")
}

func TestAchievementsID(t *testing.T) {
	t.Parallel()
	core, _ := newTestCore(t, "")
	assert.Equal(t, "snes/super-game", core.AchievementsID("snes/super-game"))
	assert.Empty(t, core.AchievementsID(""))
}
