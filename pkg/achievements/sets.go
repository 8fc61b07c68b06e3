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

// Package achievements loads achievement set definitions and tracks
// per-game unlock and statistic progress over the progress database.
package achievements

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Achievement is one unlockable goal declared by a set definition.
type Achievement struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Hidden achievements keep their title and description masked in the
	// UI until unlocked.
	Hidden bool `yaml:"hidden"`
}

// Stat is one tracked gameplay statistic declared by a set definition.
type Stat struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	// Format is a fmt verb applied to the stored value, e.g. "%d m".
	// Empty means plain "%d".
	Format string `yaml:"format"`
}

// Set is a bundle of achievements and statistics for one game.
type Set struct {
	ID           string        `yaml:"id"`
	GameName     string        `yaml:"game_name"`
	Achievements []Achievement `yaml:"achievements"`
	Stats        []Stat        `yaml:"stats"`
}

// FormatValue renders a stat value using the declared format verb.
func (s Stat) FormatValue(value int64) string {
	format := s.Format
	if format == "" {
		format = "%d"
	}
	return fmt.Sprintf(format, value)
}

// ParseSet decodes a single YAML set definition and checks it is usable.
func ParseSet(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return set, fmt.Errorf("failed to parse set definition: %w", err)
	}
	if set.ID == "" {
		return set, errors.New("set definition is missing an id")
	}
	seen := make(map[string]struct{}, len(set.Achievements))
	for _, ach := range set.Achievements {
		if ach.ID == "" {
			return set, fmt.Errorf("set %s has an achievement without an id", set.ID)
		}
		if _, ok := seen[ach.ID]; ok {
			return set, fmt.Errorf("set %s declares achievement %s twice", set.ID, ach.ID)
		}
		seen[ach.ID] = struct{}{}
	}
	return set, nil
}

func isSetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// LoadBundledSets reads every set definition under dir in an embedded
// filesystem. A definition that fails to parse is logged and skipped so
// one bad file cannot take down the bundled library.
func LoadBundledSets(fsys fs.FS, dir string) ([]Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled set directory: %w", err)
	}
	var sets []Set
	for _, entry := range entries {
		if entry.IsDir() || !isSetFile(entry.Name()) {
			continue
		}
		data, readErr := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if readErr != nil {
			return nil, fmt.Errorf("failed to read bundled set %s: %w", entry.Name(), readErr)
		}
		set, parseErr := ParseSet(data)
		if parseErr != nil {
			log.Warn().Err(parseErr).Str("file", entry.Name()).Msg("skipping bundled set")
			continue
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// LoadDataDirSets reads user-provided set definitions from the platform
// data directory. A missing directory is not an error, it just means the
// user has not added any sets.
func LoadDataDirSets(fsys afero.Fs, dir string) ([]Set, error) {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check set directory: %w", err)
	}
	if !exists {
		return nil, nil
	}
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read set directory: %w", err)
	}
	var sets []Set
	for _, entry := range entries {
		if entry.IsDir() || !isSetFile(entry.Name()) {
			continue
		}
		data, readErr := afero.ReadFile(fsys, filepath.Join(dir, entry.Name()))
		if readErr != nil {
			return nil, fmt.Errorf("failed to read set %s: %w", entry.Name(), readErr)
		}
		set, parseErr := ParseSet(data)
		if parseErr != nil {
			log.Warn().Err(parseErr).Str("file", entry.Name()).Msg("skipping user set")
			continue
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Library is an indexed collection of set definitions.
type Library struct {
	byID map[string]int
	sets []Set
}

// NewLibrary builds a library from groups of sets in priority order: a
// set in a later group replaces an earlier set with the same ID, which
// lets user definitions override bundled ones.
func NewLibrary(groups ...[]Set) *Library {
	lib := &Library{byID: make(map[string]int)}
	for _, group := range groups {
		for _, set := range group {
			if idx, ok := lib.byID[set.ID]; ok {
				lib.sets[idx] = set
				continue
			}
			lib.byID[set.ID] = len(lib.sets)
			lib.sets = append(lib.sets, set)
		}
	}
	return lib
}

func (l *Library) Len() int {
	return len(l.sets)
}

// Set returns the definition with the given ID.
func (l *Library) Set(id string) (Set, bool) {
	idx, ok := l.byID[id]
	if !ok {
		return Set{}, false
	}
	return l.sets[idx], true
}

// minTitleSimilarity is the floor for accepting a fuzzy title match.
// Jaro-Winkler weights shared prefixes, so regional subtitle variants
// still score well above this while unrelated titles fall under it.
const minTitleSimilarity float32 = 0.85

var (
	metadataRegex    = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	nonAlphanumRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// normalizeTitle reduces a game name to a comparable form: release
// metadata like "(USA) [!]" stripped, lowercased, punctuation removed.
func normalizeTitle(name string) string {
	name = metadataRegex.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "&", " and ")
	return nonAlphanumRegex.ReplaceAllString(name, "")
}

// FindSetForGame resolves the set for a running game. An exact set ID
// match wins, then an exact normalized title match, then the best fuzzy
// title match above the similarity floor.
func (l *Library) FindSetForGame(name string) (Set, bool) {
	if name == "" {
		return Set{}, false
	}
	if set, ok := l.Set(name); ok {
		return set, true
	}

	query := normalizeTitle(name)
	if query == "" {
		return Set{}, false
	}
	for _, set := range l.sets {
		if normalizeTitle(set.GameName) == query {
			return set, true
		}
	}

	type match struct {
		set        Set
		similarity float32
	}
	var matches []match
	for _, set := range l.sets {
		candidate := normalizeTitle(set.GameName)
		if candidate == "" {
			continue
		}
		similarity := edlib.JaroWinklerSimilarity(query, candidate)
		if similarity > 0.7 {
			log.Debug().
				Str("query", query).
				Str("candidate", candidate).
				Float32("similarity", similarity).
				Msg("fuzzy set match candidate evaluation")
		}
		if similarity >= minTitleSimilarity {
			matches = append(matches, match{set: set, similarity: similarity})
		}
	}
	if len(matches) == 0 {
		return Set{}, false
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	return matches[0].set, true
}
