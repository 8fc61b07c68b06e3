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

// Package retroarch adapts the RetroArch frontend to the cores.Core
// interface over its UDP network command interface.
//
// RetroArch keeps no metadata for its save slots, so descriptions and save
// times live in a TOML index file next to the state files. Core options and
// input binds are read from the managed RetroArch files under the platform
// config directory, which the service points the frontend at when launching
// it.
package retroarch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
)

// CoreID identifies this adapter.
const CoreID = "retroarch"

const saveTimeFormat = "2006-01-02 15:04"

// ErrNoContent is returned by state operations when the frontend is running
// without a game loaded.
var ErrNoContent = errors.New("no content is loaded")

// User-facing reasons for blocked state operations.
const (
	reasonNoContent       = "No game is loaded."
	reasonCoreUnreachable = "RetroArch is not responding."
)

// Core drives a RetroArch frontend. It implements cores.Core.
type Core struct {
	client    *CommandClient
	cfg       *config.Instance
	fs        afero.Fs
	clock     clockwork.Clock
	stateDir  string
	configDir string
}

// NewCore builds a RetroArch adapter from the platform's directories and the
// service config. A nil clock uses the real one.
func NewCore(cfg *config.Instance, pl platforms.Platform, clock clockwork.Clock) *Core {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	settings := pl.Settings()
	return &Core{
		client:    NewCommandClient(cfg.CoreAddr()),
		cfg:       cfg,
		fs:        afero.NewOsFs(),
		clock:     clock,
		stateDir:  settings.StateDir,
		configDir: settings.ConfigDir,
	}
}

// ID returns the unique ID of this core adapter.
func (*Core) ID() string {
	return CoreID
}

// Name returns the core's display name.
func (*Core) Name() string {
	return "RetroArch"
}

// HasFeature reports the frontend's capabilities. The network command
// interface does not expose per-core limits, so moment-to-moment gating
// goes through CanSaveNow and CanLoadNow instead.
func (*Core) HasFeature(feature cores.Feature) bool {
	switch feature {
	case cores.FeatureSavingDuringRuntime,
		cores.FeatureLoadingDuringRuntime,
		cores.FeatureChangingOptionsDuringRuntime,
		cores.FeatureReturnToLauncher:
		return true
	case cores.FeatureHelp, cores.FeatureSubtitleOptions:
		return false
	default:
		return false
	}
}

// statusCtx bounds probes that have no caller context.
func (c *Core) statusCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.client.timeout)
}

// CanSaveNow reports whether a state can be saved right now.
func (c *Core) CanSaveNow() (bool, string) {
	ctx, cancel := c.statusCtx()
	defer cancel()

	status, err := c.client.Status(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("status query failed, blocking save")
		return false, reasonCoreUnreachable
	}
	if !status.ContentLoaded() {
		return false, reasonNoContent
	}
	return true, ""
}

// CanLoadNow reports whether a state can be loaded right now.
func (c *Core) CanLoadNow() (bool, string) {
	ctx, cancel := c.statusCtx()
	defer cancel()

	status, err := c.client.Status(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("status query failed, blocking load")
		return false, reasonCoreUnreachable
	}
	if !status.ContentLoaded() {
		return false, reasonNoContent
	}
	return true, ""
}

// SaveState asks the frontend to write the current state to a slot and
// records the description in the slot index.
func (c *Core) SaveState(ctx context.Context, slot int, description string) error {
	status, err := c.client.Status(ctx)
	if err != nil {
		return err
	}
	if !status.ContentLoaded() {
		return ErrNoContent
	}

	err = c.client.Send(ctx, fmt.Sprintf("%s %d", cmdSaveStateSlot, slot))
	if err != nil {
		return err
	}

	err = c.recordSlot(status.Content, slot, description)
	if err != nil {
		// The save command is already sent, a stale index is not fatal.
		log.Warn().Err(err).Int("slot", slot).Msg("failed to update slot index")
	}

	log.Info().
		Int("slot", slot).
		Str("content", status.Content).
		Msg("state save requested")
	return nil
}

// LoadState asks the frontend to restore the state in a slot.
func (c *Core) LoadState(ctx context.Context, slot int) error {
	err := c.client.Send(ctx, fmt.Sprintf("%s %d", cmdLoadStateSlot, slot))
	if err != nil {
		return err
	}
	log.Info().Int("slot", slot).Msg("state load requested")
	return nil
}

// SaveStates lists the occupied slots for the running content by scanning
// the state directory and merging in slot index metadata.
func (c *Core) SaveStates(ctx context.Context) ([]cores.SaveStateInfo, error) {
	status, err := c.client.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !status.ContentLoaded() {
		return nil, ErrNoContent
	}

	files, err := c.scanStateFiles(status.Content)
	if err != nil {
		return nil, err
	}

	index := c.loadSlotIndex()
	infos := make([]cores.SaveStateInfo, 0, len(files))
	for _, file := range files {
		info := cores.SaveStateInfo{
			Slot:    file.slot,
			SavedAt: file.modTime,
		}
		if entry, ok := index.entry(status.Content, file.slot); ok {
			info.Description = entry.Description
			if !entry.SavedAt.IsZero() {
				info.SavedAt = entry.SavedAt
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Slot < infos[j].Slot
	})
	return infos, nil
}

// DefaultSaveDescription labels a save the user left undescribed with the
// slot number and the current time. Boards without an RTC boot at epoch,
// and a "1970" stamp helps nobody, so an unreliable clock leaves the time
// off.
func (c *Core) DefaultSaveDescription(slot int) string {
	now := c.clock.Now()
	if !helpers.IsClockReliable(now) {
		return fmt.Sprintf("Slot %d", slot)
	}
	return fmt.Sprintf("Slot %d - %s", slot, now.Format(saveTimeFormat))
}

// AchievementsID returns the achievement set ID for a game domain.
// RetroArch content uses the domain itself as the set ID.
func (*Core) AchievementsID(domain string) string {
	return domain
}

// Quit asks the frontend process to exit.
func (c *Core) Quit(ctx context.Context) error {
	log.Info().Msg("asking frontend to quit")
	return c.client.Send(ctx, cmdQuit)
}
