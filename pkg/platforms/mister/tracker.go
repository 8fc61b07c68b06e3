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

package mister

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Tracker follows the files MiSTer main rewrites on core and content changes
// and reports them as active game updates.
type Tracker struct {
	setActiveGame func(*platforms.GameInfo)

	// File paths are fields so tests can point the tracker at a temp dir.
	coreNameFile    string
	currentPathFile string

	mu         sync.Mutex
	activeCore string
	activePath string
}

func NewTracker(setActiveGame func(*platforms.GameInfo)) *Tracker {
	return &Tracker{
		setActiveGame:   setActiveGame,
		coreNameFile:    CoreNameFile,
		currentPathFile: CurrentPathFile,
	}
}

// loadCore reads the running core name and updates the active game.
func (tr *Tracker) loadCore() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	data, err := os.ReadFile(tr.coreNameFile)
	if err != nil {
		log.Error().Msgf("error reading core name: %s", err)
		return
	}
	coreName := strings.TrimSpace(string(data))

	if coreName == tr.activeCore {
		return
	}

	oldCore := tr.activeCore
	tr.activeCore = coreName
	log.Info().Str("old_core", oldCore).Str("new_core", coreName).Msg("core changed")

	if coreName == "" || coreName == MenuCore {
		log.Debug().Msg("in menu, stopping game")
		tr.activePath = ""
		tr.setActiveGame(nil)
		return
	}

	// The path file still holds the previous game's content until main
	// rewrites it, so report the bare core rather than a stale title.
	tr.activePath = ""
	tr.publish()
}

// loadPath reads the running content path and updates the active game.
func (tr *Tracker) loadPath() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	data, err := os.ReadFile(tr.currentPathFile)
	if err != nil {
		log.Error().Msgf("error reading current path: %s", err)
		return
	}
	path := strings.TrimSpace(string(data))

	if path == tr.activePath {
		return
	}
	tr.activePath = path

	// Until a core is reported there is nothing to attribute the path to.
	if tr.activeCore == "" || tr.activeCore == MenuCore {
		return
	}

	tr.publish()
}

// publish pushes the current core and content as the active game. Callers
// hold tr.mu.
func (tr *Tracker) publish() {
	name := contentName(tr.activePath)
	if name == "" {
		name = tr.activeCore
	}

	tr.setActiveGame(&platforms.GameInfo{
		Domain: strings.ToLower(tr.activeCore) + "/" + name,
		Name:   name,
		CoreID: tr.activeCore,
		Path:   tr.activePath,
	})
}

// contentName derives a display name from a content path. Cores launched
// without content report paths like "/media/fat/menu.rbf" or nothing at all.
func contentName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// startWatcher monitors the tracker's files for writes by MiSTer main.
// Files are created first when missing, as main only writes them on the
// next core change and fsnotify cannot watch a file that does not exist.
func (tr *Tracker) startWatcher() (*fsnotify.Watcher, error) {
	log.Info().Msg("starting file watcher")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					switch event.Name {
					case tr.coreNameFile:
						tr.loadCore()
					case tr.currentPathFile:
						tr.loadPath()
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Msgf("error in watcher: %s", err)
			}
		}
	}()

	for _, path := range []string{tr.coreNameFile, tr.currentPathFile} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			//nolint:gosec // MiSTer main must be able to rewrite these
			if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
				_ = watcher.Close()
				return nil, fmt.Errorf("failed to create %s: %w", path, err)
			}
			log.Info().Msgf("created tracker file: %s", path)
		}
		if err := watcher.Add(path); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	return watcher, nil
}

// startTracker begins following core and content changes, reporting them
// through setActiveGame. The returned function stops the tracker.
func startTracker(setActiveGame func(*platforms.GameInfo)) (func() error, error) {
	tr := NewTracker(setActiveGame)

	// Sync with whatever was already running before the service started.
	tr.loadCore()
	tr.loadPath()

	watcher, err := tr.startWatcher()
	if err != nil {
		return nil, err
	}

	return func() error {
		if err := watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
		return nil
	}, nil
}
