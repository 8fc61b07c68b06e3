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

package linux

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/assets"
	"github.com/IntermezzoProject/intermezzo/pkg/audio"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

const coreWatchInterval = 5 * time.Second

// Platform runs the menu service on a desktop Linux machine alongside an
// emulator the user launches themselves.
type Platform struct {
	activeGame    func() *platforms.GameInfo
	setActiveGame func(*platforms.GameInfo)
	stopWatch     chan struct{}
}

func NewPlatform() *Platform {
	return &Platform{}
}

func (*Platform) ID() string {
	return platforms.PlatformIDLinux
}

func (*Platform) StartPre(_ *config.Instance) error {
	return nil
}

func (p *Platform) StartPost(
	cfg *config.Instance,
	activeGame func() *platforms.GameInfo,
	setActiveGame func(*platforms.GameInfo),
) error {
	p.activeGame = activeGame
	p.setActiveGame = setActiveGame
	p.stopWatch = make(chan struct{})
	go p.watchCoreProcess(cfg)
	return nil
}

func (p *Platform) Stop() error {
	if p.stopWatch != nil {
		close(p.stopWatch)
		p.stopWatch = nil
	}
	return nil
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
		StateDir:  filepath.Join(xdg.DataHome, config.AppName, "states"),
	}
}

func (*Platform) SupportsQuit() bool {
	return true
}

func (*Platform) Console() platforms.ConsoleManager {
	return platforms.NoOpConsoleManager{}
}

func (*Platform) ReturnToLauncher(cfg *config.Instance) error {
	command := cfg.LauncherCommand()
	if command == "" {
		// Desktop sessions have no dedicated launcher to hand control back to.
		return platforms.ErrNotSupported
	}
	cmd := exec.Command("sh", "-c", command) //nolint:gosec // user-configured command
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start launcher command: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Warn().Err(err).Msg("launcher command exited with error")
		}
	}()
	return nil
}

func (*Platform) PlayAudio(path string) error {
	if path == "" {
		return audio.PlayWAVBytes(assets.SuccessSound) //nolint:wrapcheck // direct passthrough
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(xdg.DataHome, config.AppName, path)
	}
	return audio.PlayFile(path) //nolint:wrapcheck // direct passthrough
}

func (*Platform) SettingsEntries(cfg *config.Instance) []platforms.SettingsEntry {
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
			HelpText: "Write debug detail to the service log.",
		},
		{
			Key:   "telemetry",
			Label: "Crash reporting",
			Kind:  platforms.EntryToggle,
			Get: func() string {
				return strconv.FormatBool(cfg.TelemetryEnabled())
			},
			Set: func(v string) error {
				enabled, err := strconv.ParseBool(v)
				if err != nil {
					return err //nolint:wrapcheck // strconv error is descriptive
				}
				cfg.SetTelemetryEnabled(enabled)
				return nil
			},
			HelpText: "Send anonymous crash reports to the project.",
		},
	}
}

// watchCoreProcess polls for the configured core command and clears the
// active game when its process disappears, so the menu cannot act on a core
// that already exited.
func (p *Platform) watchCoreProcess(cfg *config.Instance) {
	ticker := time.NewTicker(coreWatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopWatch:
			return
		case <-ticker.C:
			if p.activeGame() == nil {
				continue
			}
			running, err := coreProcessRunning(cfg.CoreCommand())
			if err != nil {
				log.Warn().Err(err).Msg("failed to check core process")
				continue
			}
			if !running {
				log.Info().Msgf("core process %q exited, clearing active game",
					cfg.CoreCommand())
				p.setActiveGame(nil)
			}
		}
	}
}

func coreProcessRunning(command string) (bool, error) {
	procs, err := process.Processes()
	if err != nil {
		return false, err //nolint:wrapcheck // gopsutil error is descriptive
	}
	for _, proc := range procs {
		name, err := proc.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(name, command) {
			return true, nil
		}
	}
	return false, nil
}
