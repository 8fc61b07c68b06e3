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

package platforms

import (
	"errors"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
)

var ErrNotSupported = errors.New("operation not supported on this platform")

const (
	PlatformIDLinux  = "linux"
	PlatformIDMister = "mister"
)

// Settings defines all simple settings/configuration values available for a
// platform.
type Settings struct {
	// DataDir is the root folder where databases, achievement sets and
	// downloaded assets are permanently stored. WARNING: This value should be
	// accessed using the DataDir function in the helpers package.
	DataDir string
	// ConfigDir is the directory where the config file is stored.
	// WARNING: This value should be accessed using the ConfigDir function in
	// the helpers package.
	ConfigDir string
	// TempDir is a temporary directory where the logs are stored and any
	// files used for inter-process communication. Expect it to be deleted.
	TempDir string
	// StateDir is where core save states live on this platform. Core
	// adapters scan it for occupied slots.
	StateDir string
}

// GameInfo identifies the media a platform reports as currently running.
type GameInfo struct {
	// Domain is the config section for this game's settings, usually
	// "<core id>/<content name>".
	Domain string
	// Name is the display name shown in the menu title and status output.
	Name string
	// CoreID is the platform's identifier for the running core.
	CoreID string
	// Path is the content path when the platform knows it.
	Path string
}

// EntryKind selects how a settings entry renders in the backend tab.
type EntryKind int

const (
	// EntryToggle (zero value) renders as an on/off switch.
	EntryToggle EntryKind = iota
	// EntryCycle renders as a value cycled through Options.
	EntryCycle
	// EntryAction renders as a button that runs Set with an empty value.
	EntryAction
)

// SettingsEntry is one row of the backend settings tab, declared by a
// platform and rendered by the UI. Entries read and write through the Get
// and Set callbacks so platforms never import the UI toolkit.
type SettingsEntry struct {
	// Get returns the current value in display form.
	Get func() string
	// Set applies a new value. For EntryToggle the value is "true" or
	// "false", for EntryCycle one of Options, for EntryAction it is ignored.
	Set func(string) error
	// Key uniquely identifies the entry within the platform.
	Key string
	// Label is the row text shown to the user.
	Label string
	// HelpText is optional longer help shown while the row is selected.
	HelpText string
	// Options are the values an EntryCycle rotates through.
	Options []string
	// Kind selects the widget used to render this entry.
	Kind EntryKind
}

// Platform is the central interface that defines how the menu service
// interacts with a supported platform.
type Platform interface {
	// ID returns the unique ID of this platform.
	ID() string
	// StartPre runs any necessary platform setup BEFORE the main service has
	// started running.
	StartPre(*config.Instance) error
	// StartPost runs any necessary platform setup AFTER the main service has
	// started running. The platform receives a getter and setter for the
	// service's active game state and reports game changes through them.
	StartPost(*config.Instance, func() *GameInfo, func(*GameInfo)) error
	// Stop runs any necessary cleanup tasks before the rest of the service
	// starts shutting down.
	Stop() error
	// Settings returns all simple platform-specific settings such as paths.
	// NOTE: Some values on the Settings struct should be accessed using
	// helper functions in the helpers package instead of directly. Check
	// comments.
	Settings() Settings
	// SupportsQuit reports whether the service process may exit on this
	// platform. Embedded platforms where the service must stay resident
	// return false, which hides the menu's quit action.
	SupportsQuit() bool
	// SettingsEntries returns the rows of the backend settings tab. An empty
	// list means the tab is omitted from the settings dialog.
	SettingsEntries(*config.Instance) []SettingsEntry
	// Console returns the manager used to take over and restore the system
	// console around menu overlay sessions.
	Console() ConsoleManager
	// ReturnToLauncher hands control back to the platform's launcher or
	// menu system after the running core exits. Returns ErrNotSupported
	// when no launcher is available to return to.
	ReturnToLauncher(*config.Instance) error
	// PlayAudio plays an audio file at the given path. A relative path will
	// be resolved using the data directory assets folder as the base, and an
	// empty path plays the built-in feedback blip. This function does not
	// block until the audio finishes.
	PlayAudio(string) error
}
