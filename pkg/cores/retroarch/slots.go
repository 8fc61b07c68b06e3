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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
)

// slotIndexEntry is one slot's metadata in the index file.
type slotIndexEntry struct {
	SavedAt     time.Time `toml:"saved_at"`
	Description string    `toml:"description"`
}

// slotIndex is the on-disk structure of the slot metadata file. RetroArch
// state files carry no descriptions, so saves record them here keyed by
// content name and slot number.
type slotIndex struct {
	Games map[string]map[string]slotIndexEntry `toml:"games"`
}

func (idx slotIndex) entry(content string, slot int) (slotIndexEntry, bool) {
	entry, ok := idx.Games[content][strconv.Itoa(slot)]
	return entry, ok
}

func (c *Core) slotIndexPath() string {
	return filepath.Join(c.stateDir, config.SlotIndexFile)
}

// loadSlotIndex reads the slot metadata file. A missing or broken index is
// an empty one.
func (c *Core) loadSlotIndex() slotIndex {
	var idx slotIndex
	data, err := afero.ReadFile(c.fs, c.slotIndexPath())
	if err != nil {
		return idx
	}
	err = toml.Unmarshal(data, &idx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse slot index, starting fresh")
		return slotIndex{}
	}
	return idx
}

// recordSlot stores a slot's description and save time in the index.
func (c *Core) recordSlot(content string, slot int, description string) error {
	idx := c.loadSlotIndex()
	if idx.Games == nil {
		idx.Games = make(map[string]map[string]slotIndexEntry)
	}
	if idx.Games[content] == nil {
		idx.Games[content] = make(map[string]slotIndexEntry)
	}
	idx.Games[content][strconv.Itoa(slot)] = slotIndexEntry{
		Description: description,
		SavedAt:     c.clock.Now(),
	}

	data, err := toml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode slot index: %w", err)
	}
	err = c.fs.MkdirAll(c.stateDir, 0o750)
	if err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	err = afero.WriteFile(c.fs, c.slotIndexPath(), data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write slot index: %w", err)
	}
	return nil
}

// stateFile is one discovered state file.
type stateFile struct {
	modTime time.Time
	slot    int
}

// scanStateFiles finds the content's state files under the state directory.
// The scan uses fastwalk on the real filesystem and afero's walker on
// injected ones. A missing state directory is an empty result.
func (c *Core) scanStateFiles(content string) ([]stateFile, error) {
	found := make(map[int]stateFile)
	var mu sync.Mutex
	collect := func(name string, info os.FileInfo) {
		slot, ok := parseStateSlot(name, content)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		// Keep the newest file when slot names collide across subdirectories.
		if existing, ok := found[slot]; ok && existing.modTime.After(info.ModTime()) {
			return
		}
		found[slot] = stateFile{slot: slot, modTime: info.ModTime()}
	}

	var walkErr error
	if _, ok := c.fs.(*afero.OsFs); ok {
		walkErr = c.fastScan(collect)
	} else {
		walkErr = c.aferoScan(collect)
	}
	if walkErr != nil {
		return nil, walkErr
	}

	files := make([]stateFile, 0, len(found))
	for _, file := range found {
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].slot < files[j].slot
	})
	return files, nil
}

// fastScan walks the state directory with fastwalk, which calls back from
// multiple goroutines.
func (c *Core) fastScan(collect func(string, os.FileInfo)) error {
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, c.stateDir,
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // skip unreadable entries
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			info, infoErr := entry.Info()
			if infoErr != nil {
				return nil //nolint:nilerr // skip unreadable entries
			}
			collect(filepath.Base(path), info)
			return nil
		})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to scan state directory: %w", err)
	}
	return nil
}

func (c *Core) aferoScan(collect func(string, os.FileInfo)) error {
	err := afero.Walk(c.fs, c.stateDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || !info.Mode().IsRegular() {
				return nil //nolint:nilerr // skip unreadable entries
			}
			collect(filepath.Base(path), info)
			return nil
		})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to scan state directory: %w", err)
	}
	return nil
}

// parseStateSlot matches state file names for a piece of content. Slot zero
// is "<content>.state" and higher slots append their number. The
// ".state.auto" autosave is not a user slot.
func parseStateSlot(name, content string) (int, bool) {
	prefix := content + ".state"
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	suffix := name[len(prefix):]
	if suffix == "" {
		return 0, true
	}
	if strings.HasPrefix(suffix, ".") {
		return 0, false
	}
	slot, err := strconv.Atoi(suffix)
	if err != nil || slot < 1 {
		return 0, false
	}
	return slot, true
}
