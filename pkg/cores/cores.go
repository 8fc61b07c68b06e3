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
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotSupported = errors.New("operation not supported by this core")

// Feature is a capability a core adapter may report. The menu uses these to
// decide which buttons and tabs to show for the running game.
type Feature int

const (
	// FeatureHelp means the core provides in-game help text.
	FeatureHelp Feature = iota
	// FeatureSavingDuringRuntime means states can be saved while a game runs.
	FeatureSavingDuringRuntime
	// FeatureLoadingDuringRuntime means states can be loaded while a game runs.
	FeatureLoadingDuringRuntime
	// FeatureChangingOptionsDuringRuntime means core options may be edited and
	// applied without restarting the game.
	FeatureChangingOptionsDuringRuntime
	// FeatureSubtitleOptions means the game has dialogue that subtitle and
	// talk speed settings apply to.
	FeatureSubtitleOptions
	// FeatureReturnToLauncher means the core can exit back to the platform
	// launcher without stopping the service.
	FeatureReturnToLauncher
)

func (f Feature) String() string {
	switch f {
	case FeatureHelp:
		return "help"
	case FeatureSavingDuringRuntime:
		return "saving-during-runtime"
	case FeatureLoadingDuringRuntime:
		return "loading-during-runtime"
	case FeatureChangingOptionsDuringRuntime:
		return "changing-options-during-runtime"
	case FeatureSubtitleOptions:
		return "subtitle-options"
	case FeatureReturnToLauncher:
		return "return-to-launcher"
	default:
		return fmt.Sprintf("feature(%d)", int(f))
	}
}

// ExtraOption is a single core-declared checkbox for the game options tab.
// Declarations are read-only to the UI; the checked state lives in the game's
// config domain under ConfigKey.
type ExtraOption struct {
	// Label is the checkbox text shown to the user.
	Label string
	// Tooltip is optional longer help text for the option.
	Tooltip string
	// ConfigKey is the boolean key this option persists under in the game's
	// config domain. Must be unique within one declaration list.
	ConfigKey string
	// GroupID makes this option a member of a group. Members are enabled and
	// disabled together by their group's leader. Zero means ungrouped.
	GroupID int
	// GroupLeaderID makes this option the leader of a group. Toggling the
	// leader enables or disables every member whose GroupID matches. Zero
	// means this option leads no group.
	GroupLeaderID int
	// DefaultState is the checked state used when the config domain has no
	// stored value for ConfigKey.
	DefaultState bool
}

// SaveStateInfo describes one occupied save slot.
type SaveStateInfo struct {
	// Description is the user-entered slot label.
	Description string
	// SavedAt is when the state was written. A zero value means the save
	// carries no trustworthy timestamp and the UI shows a placeholder.
	SavedAt time.Time
	// Slot is the slot number, unique per game.
	Slot int
}

// KeymapAction is one bindable action within a keymap.
type KeymapAction struct {
	ID    string
	Label string
	// Keys are the currently bound inputs, in display form.
	Keys []string
}

// Keymap is a named group of input bindings declared by a core for the
// running game.
type Keymap struct {
	ID      string
	Label   string
	Actions []KeymapAction
}

// Core is the adapter interface between the menu service and one emulation
// core. Implementations live in subpackages and talk to the core over
// whatever control channel it exposes.
type Core interface {
	// ID returns the unique ID of this core adapter.
	ID() string
	// Name returns the core's display name.
	Name() string
	// HasFeature reports whether the running core supports a capability.
	HasFeature(Feature) bool
	// CanSaveNow reports whether a state can be saved right now. When it
	// cannot, the second return optionally carries a core-specific reason
	// suitable for showing to the user. An empty reason means the caller
	// should use its generic message.
	CanSaveNow() (bool, string)
	// CanLoadNow reports whether a state can be loaded right now, with the
	// same reason semantics as CanSaveNow.
	CanLoadNow() (bool, string)
	// SaveState writes the current game state to a slot with a description.
	SaveState(ctx context.Context, slot int, description string) error
	// LoadState restores the game state from a slot.
	LoadState(ctx context.Context, slot int) error
	// SaveStates lists occupied slots for the running game.
	SaveStates(ctx context.Context) ([]SaveStateInfo, error)
	// DefaultSaveDescription builds the description used when the user
	// leaves the slot label empty.
	DefaultSaveDescription(slot int) string
	// ExtraOptions returns the core's option declarations for a game domain.
	// Empty means the game options tab is omitted.
	ExtraOptions(domain string) []ExtraOption
	// SyncOptions writes the stored option states for a game domain back to
	// the core's own configuration, so the next content load picks them up.
	SyncOptions(domain string) error
	// Keymaps returns the input binding groups for a game domain. Empty
	// means the keymaps tab is omitted.
	Keymaps(domain string) []Keymap
	// AchievementsID returns the achievement set ID for a game domain, or
	// empty when the game has none.
	AchievementsID(domain string) string
	// Quit asks the core process to exit.
	Quit(ctx context.Context) error
}

// ValidateExtraOptions checks a core's option declarations before they reach
// the UI. It rejects options without a config key, duplicate config keys, and
// options that lead their own group, which would let a checkbox disable
// itself.
func ValidateExtraOptions(opts []ExtraOption) error {
	seen := make(map[string]struct{}, len(opts))
	for i, opt := range opts {
		if opt.ConfigKey == "" {
			return fmt.Errorf("extra option %d (%q): empty config key", i, opt.Label)
		}
		if _, ok := seen[opt.ConfigKey]; ok {
			return fmt.Errorf("extra option %d (%q): duplicate config key %q",
				i, opt.Label, opt.ConfigKey)
		}
		seen[opt.ConfigKey] = struct{}{}
		if opt.GroupLeaderID != 0 && opt.GroupLeaderID == opt.GroupID {
			return fmt.Errorf("extra option %d (%q): option leads its own group %d",
				i, opt.Label, opt.GroupID)
		}
	}
	return nil
}
