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

package assets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IntermezzoProject/intermezzo/pkg/achievements"
	"github.com/IntermezzoProject/intermezzo/pkg/assets"
)

func TestBundledAchievementSetsParse(t *testing.T) {
	t.Parallel()
	sets, err := achievements.LoadBundledSets(assets.Achievements, assets.AchievementsDir)
	require.NoError(t, err)
	require.NotEmpty(t, sets, "the service ships with bundled sets")

	seen := make(map[string]bool)
	for _, set := range sets {
		assert.False(t, seen[set.ID], "duplicate bundled set id %s", set.ID)
		seen[set.ID] = true
		assert.NotEmpty(t, set.GameName, "set %s", set.ID)
		assert.NotEmpty(t, set.Achievements, "set %s", set.ID)
	}
	assert.True(t, seen["nes/alter-ego"])
	assert.True(t, seen["gb/ucity"])
}

func TestGetHelpText(t *testing.T) {
	t.Parallel()

	english, err := assets.GetHelpText("en")
	require.NoError(t, err)
	assert.Contains(t, english, "Resume")

	german, err := assets.GetHelpText("de")
	require.NoError(t, err)
	assert.Contains(t, german, "Fortsetzen")

	fallback, err := assets.GetHelpText("xx")
	require.NoError(t, err, "unknown languages fall back to English")
	assert.Equal(t, english, fallback)
}

func TestBanner(t *testing.T) {
	t.Parallel()
	lines := strings.Split(strings.TrimRight(assets.Banner, "\n"), "\n")
	assert.Len(t, lines, 4, "the text logo is four rows tall")
	for _, line := range lines {
		assert.NotEmpty(t, line)
		assert.LessOrEqual(t, len(line), 52, "the logo must fit inside the menu dialog")
	}
}

func TestFeedbackSounds(t *testing.T) {
	t.Parallel()
	for name, sound := range map[string][]byte{
		"success": assets.SuccessSound,
		"fail":    assets.FailSound,
	} {
		require.Greater(t, len(sound), 44, "%s sound should carry sample data", name)
		assert.Equal(t, "RIFF", string(sound[:4]), "%s sound", name)
		assert.Equal(t, "WAVE", string(sound[8:12]), "%s sound", name)
	}
}
