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

//go:build linux

// Package mister runs the menu service on a MiSTer FPGA device. The overlay
// renders on the Linux console, which MiSTer main only exposes after an F9
// keypress releases the framebuffer, so most of this package deals with
// driving that handover and tracking which core is running.
package mister

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/assets"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers/linuxinput"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms/mister/startup"
	"github.com/rs/zerolog/log"
)

type Platform struct {
	cfg           *config.Instance
	console       *ConsoleManager
	activeGame    func() *platforms.GameInfo
	setActiveGame func(*platforms.GameInfo)
	stopTracker   func() error
	kbd           linuxinput.Keyboard
}

func NewPlatform() *Platform {
	p := &Platform{}
	p.console = newConsoleManager(p)
	return p
}

func (*Platform) ID() string {
	return platforms.PlatformIDMister
}

func (p *Platform) StartPre(cfg *config.Instance) error {
	p.cfg = cfg

	kbd, err := linuxinput.NewKeyboard(linuxinput.DefaultTimeout)
	if err != nil {
		return fmt.Errorf("failed to create keyboard: %w", err)
	}
	p.kbd = kbd
	return nil
}

func (p *Platform) StartPost(
	_ *config.Instance,
	activeGame func() *platforms.GameInfo,
	setActiveGame func(*platforms.GameInfo),
) error {
	p.activeGame = activeGame
	p.setActiveGame = setActiveGame

	stopTracker, err := startTracker(setActiveGame)
	if err != nil {
		return fmt.Errorf("failed to start core tracker: %w", err)
	}
	p.stopTracker = stopTracker
	return nil
}

func (p *Platform) Stop() error {
	if p.stopTracker != nil {
		if err := p.stopTracker(); err != nil {
			return err
		}
	}
	if err := p.kbd.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing keyboard")
	}
	return nil
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   DataDir,
		ConfigDir: DataDir,
		TempDir:   TempDir,
		StateDir:  SaveStateDir,
	}
}

// SupportsQuit is false on MiSTer: the service is started from init and must
// stay resident for the overlay hotkey to keep working.
func (*Platform) SupportsQuit() bool {
	return false
}

func (p *Platform) Console() platforms.ConsoleManager {
	return p.console
}

// KeyboardPress taps a key on the virtual keyboard, by name in brace form
// such as "{f9}".
func (p *Platform) KeyboardPress(name string) error {
	return p.kbd.Press(name)
}

// overlayResolution returns the configured overlay framebuffer resolution,
// or empty before startup or when unset.
func (p *Platform) overlayResolution() string {
	if p.cfg == nil {
		return ""
	}
	return p.cfg.OverlayResolution()
}

// ReturnToLauncher loads the menu core, which unloads whatever core is
// currently running.
func (p *Platform) ReturnToLauncher(_ *config.Instance) error {
	// Restore console cursor state on both TTYs
	if err := p.console.Restore(f9ConsoleVT); err != nil {
		log.Debug().Err(err).Msg("failed to restore tty1 state")
	}
	if err := p.console.Restore(overlayVT); err != nil {
		log.Debug().Err(err).Msgf("failed to restore tty%s state", overlayVT)
	}

	if err := launchMenuCore(); err != nil {
		return err
	}
	// Wait for the core transition to settle before anything touches the
	// framebuffer again.
	time.Sleep(300 * time.Millisecond)

	// Back in FPGA mode, the console flag no longer holds.
	p.console.reset()
	return nil
}

// launchMenuCore asks MiSTer main to load the menu core over its device
// command interface.
func launchMenuCore() error {
	if _, err := os.Stat(CmdInterface); err != nil {
		return fmt.Errorf("command interface not accessible: %w", err)
	}

	cmd, err := os.OpenFile(CmdInterface, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open command interface: %w", err)
	}
	defer func() {
		if err := cmd.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close command interface")
		}
	}()

	if _, err := fmt.Fprintf(cmd, "load_core %s\n", MenuCorePath); err != nil {
		return fmt.Errorf("failed to write to command interface: %w", err)
	}
	return nil
}

// activeCoreName reads the core name MiSTer main reports, or empty when it
// cannot be determined.
func activeCoreName() string {
	data, err := os.ReadFile(CoreNameFile)
	if err != nil {
		log.Error().Msgf("error trying to get the core name: %s", err)
		return ""
	}
	return strings.TrimSpace(string(data))
}

// coreActive reports whether a game core is running, as opposed to the menu
// core or nothing at all.
func coreActive() bool {
	name := activeCoreName()
	return name != "" && name != MenuCore
}

// PlayAudio shells out to aplay, which is always present on MiSTer, rather
// than holding an audio device open from the resident service.
func (*Platform) PlayAudio(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	var cmd *exec.Cmd
	if path == "" {
		cmd = exec.CommandContext(ctx, "aplay", "-")
		cmd.Stdin = bytes.NewReader(assets.SuccessSound)
	} else {
		if !strings.HasSuffix(strings.ToLower(path), ".wav") {
			cancel()
			return fmt.Errorf("unsupported audio format: %s", path)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(DataDir, path)
		}
		cmd = exec.CommandContext(ctx, "aplay", path)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start aplay: %w", err)
	}
	go func() {
		defer cancel()
		if err := cmd.Wait(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("aplay playback failed")
		}
	}()
	return nil
}

func (p *Platform) SettingsEntries(cfg *config.Instance) []platforms.SettingsEntry {
	return []platforms.SettingsEntry{
		{
			Key:   "debug_logging",
			Label: "Debug logging",
			Kind:  platforms.EntryToggle,
			Get: func() string {
				return strconv.FormatBool(cfg.DebugLogging())
			},
			Set: func(v string) error {
				enabled, err := strconv.ParseBool(v)
				if err != nil {
					return err //nolint:wrapcheck // strconv error is descriptive
				}
				cfg.SetDebugLogging(enabled)
				return nil
			},
			HelpText: "Write debug detail to the service log on the SD card.",
		},
		{
			Key:     "overlay_resolution",
			Label:   "Overlay resolution",
			Kind:    platforms.EntryCycle,
			Options: append([]string{"auto"}, OverlayResolutions...),
			Get: func() string {
				if res := cfg.OverlayResolution(); res != "" {
					return res
				}
				return "auto"
			},
			Set: func(v string) error {
				if v == "auto" {
					v = ""
				}
				cfg.SetOverlayResolution(v)
				if v != "" && p.console.Active() {
					return applyOverlayResolution(v)
				}
				return nil
			},
			HelpText: "Framebuffer resolution used while the menu overlay is open.",
		},
		{
			Key:   "startup_service",
			Label: "Start at boot",
			Kind:  platforms.EntryToggle,
			Get: func() string {
				var boot startup.Script
				if err := boot.Load(); err != nil {
					log.Warn().Err(err).Msg("failed to read startup script")
					return "false"
				}
				return strconv.FormatBool(boot.Exists(config.AppName))
			},
			Set: func(v string) error {
				enabled, err := strconv.ParseBool(v)
				if err != nil {
					return err //nolint:wrapcheck // strconv error is descriptive
				}
				var boot startup.Script
				if err := boot.Load(); err != nil {
					return fmt.Errorf("failed to load startup script: %w", err)
				}
				if enabled == boot.Exists(config.AppName) {
					return nil
				}
				if enabled {
					if err := boot.AddService(config.AppName); err != nil {
						return fmt.Errorf("failed to add service to startup: %w", err)
					}
				} else if err := boot.Remove(config.AppName); err != nil {
					return fmt.Errorf("failed to remove service from startup: %w", err)
				}
				if err := boot.Save(); err != nil {
					return fmt.Errorf("failed to save startup script: %w", err)
				}
				return nil
			},
			HelpText: "Launch the service from user-startup.sh when MiSTer boots.",
		},
		{
			Key:   "restore_display",
			Label: "Reset display state",
			Kind:  platforms.EntryAction,
			Get:   func() string { return "" },
			Set: func(string) error {
				if err := p.console.Restore(f9ConsoleVT); err != nil {
					return err
				}
				return p.console.Restore(overlayVT)
			},
			HelpText: "Restore console cursor state if the display is stuck after an overlay session.",
		},
	}
}
