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

package cores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtraOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []ExtraOption
		wantErr string
	}{
		{
			name:    "empty declarations are valid",
			opts:    nil,
			wantErr: "",
		},
		{
			name: "plain options are valid",
			opts: []ExtraOption{
				{Label: "Smooth scrolling", ConfigKey: "smooth_scroll", DefaultState: true},
				{Label: "Original save/load screens", ConfigKey: "original_save_load"},
			},
			wantErr: "",
		},
		{
			name: "leader and members are valid",
			opts: []ExtraOption{
				{Label: "Enhanced audio", ConfigKey: "enhanced_audio", GroupLeaderID: 1},
				{Label: "Remastered music", ConfigKey: "remastered_music", GroupID: 1},
				{Label: "Remastered sfx", ConfigKey: "remastered_sfx", GroupID: 1},
			},
			wantErr: "",
		},
		{
			name: "empty config key rejected",
			opts: []ExtraOption{
				{Label: "Smooth scrolling", ConfigKey: ""},
			},
			wantErr: "empty config key",
		},
		{
			name: "duplicate config key rejected",
			opts: []ExtraOption{
				{Label: "Smooth scrolling", ConfigKey: "smooth_scroll"},
				{Label: "Smoother scrolling", ConfigKey: "smooth_scroll"},
			},
			wantErr: "duplicate config key",
		},
		{
			name: "self-leading group rejected",
			opts: []ExtraOption{
				{Label: "Enhanced audio", ConfigKey: "enhanced_audio", GroupID: 2, GroupLeaderID: 2},
			},
			wantErr: "leads its own group",
		},
		{
			name: "leader of one group, member of another is valid",
			opts: []ExtraOption{
				{Label: "Enhancements", ConfigKey: "enhancements", GroupLeaderID: 1},
				{Label: "Enhanced audio", ConfigKey: "enhanced_audio", GroupID: 1, GroupLeaderID: 2},
				{Label: "Remastered music", ConfigKey: "remastered_music", GroupID: 2},
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateExtraOptions(tt.opts)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFeatureString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "help", FeatureHelp.String())
	assert.Equal(t, "return-to-launcher", FeatureReturnToLauncher.String())
	assert.Equal(t, "feature(99)", Feature(99).String())
}
