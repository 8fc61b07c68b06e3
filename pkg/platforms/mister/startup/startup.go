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

// Package startup reads and writes MiSTer's user-startup.sh so the service
// can register itself to run on boot.
package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// startupFile is where MiSTer main looks for the user boot script.
const startupFile = "/media/fat/linux/user-startup.sh"

// Entry is one block of the startup script: an optional comment header
// naming it, followed by its command lines.
type Entry struct {
	Name    string
	Cmds    []string
	Enabled bool
}

// Script is the parsed startup file. Entries keep their original order so a
// save never reshuffles lines the user wrote by hand.
type Script struct {
	// Path overrides the startup script location, mainly for tests. Empty
	// means the MiSTer default.
	Path    string
	Entries []Entry
}

func (s *Script) file() string {
	if s.Path != "" {
		return s.Path
	}
	return startupFile
}

// Load parses the startup script. A missing file is not an error, it just
// leaves the script empty.
func (s *Script) Load() error {
	contents, err := os.ReadFile(s.file())
	if os.IsNotExist(err) {
		s.Entries = nil
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to read startup file %s: %w", s.file(), err)
	}

	var entries []Entry
	var block []string
	flush := func() {
		if len(block) > 0 {
			entries = append(entries, parseEntry(block))
			block = nil
		}
	}

	for i, line := range strings.Split(string(contents), "\n") {
		if i == 0 && strings.HasPrefix(line, "#!") {
			continue
		}
		if line == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	s.Entries = entries
	return nil
}

// parseEntry turns one blank-line separated block into an Entry. A leading
// comment line is the entry's name, and the entry counts as enabled when at
// least one command line is not commented out.
func parseEntry(block []string) Entry {
	entry := Entry{Cmds: block}
	if strings.HasPrefix(block[0], "#") {
		entry.Name = strings.TrimSpace(strings.TrimPrefix(block[0], "#"))
		entry.Cmds = block[1:]
	}
	for _, cmd := range entry.Cmds {
		if cmd != "" && !strings.HasPrefix(cmd, "#") {
			entry.Enabled = true
			break
		}
	}
	return entry
}

// Save writes the script back out, creating the linux directory if MiSTer
// has not made it yet.
func (s *Script) Save() error {
	var contents strings.Builder
	contents.WriteString("#!/bin/sh\n\n")

	for _, entry := range s.Entries {
		if entry.Name != "" {
			contents.WriteString("# " + entry.Name + "\n")
		}
		for _, cmd := range entry.Cmds {
			contents.WriteString(cmd + "\n")
		}
		contents.WriteString("\n")
	}

	dir := filepath.Dir(s.file())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	//nolint:gosec // shared system startup script
	if err := os.WriteFile(s.file(), []byte(contents.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write startup file %s: %w", s.file(), err)
	}
	return nil
}

// Exists reports whether an entry with the given name is present.
func (s *Script) Exists(name string) bool {
	for _, entry := range s.Entries {
		if entry.Name == name {
			return true
		}
	}
	return false
}

// Add appends a named entry running cmd.
func (s *Script) Add(name, cmd string) error {
	if s.Exists(name) {
		return fmt.Errorf("startup entry already exists: %s", name)
	}
	s.Entries = append(s.Entries, Entry{
		Name:    name,
		Enabled: true,
		Cmds:    strings.Split(cmd, "\n"),
	})
	return nil
}

// AddService adds an entry that launches the current binary as a daemon on
// boot. The boot argument is forwarded so "-service start" from init works.
func (s *Script) AddService(name string) error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	cmd := fmt.Sprintf("[[ -e %s ]] && %s -service $1", path, path)
	return s.Add(name, cmd)
}

// Remove deletes the named entry.
func (s *Script) Remove(name string) error {
	for i, entry := range s.Entries {
		if entry.Name == name {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("startup entry not found: %s", name)
}
