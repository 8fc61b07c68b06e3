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

package achievements

import (
	"errors"
	"fmt"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// AchievementStatus pairs a declared achievement with its unlock state.
type AchievementStatus struct {
	Achievement
	UnlockedAt time.Time
	Unlocked   bool
}

// StatStatus pairs a declared stat with its stored value.
type StatStatus struct {
	Stat
	Value int64
}

// Manager scopes progress queries to the active game's set. All methods
// are safe for concurrent use; queries with no active set report empty
// results so callers can gate UI without extra checks.
type Manager struct {
	db      database.ProgressDBI
	library *Library
	clock   clockwork.Clock
	active  *Set
	mu      syncutil.RWMutex
}

// NewManager creates a manager over the progress store. A nil clock
// falls back to the real clock.
func NewManager(db database.ProgressDBI, library *Library, clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{db: db, library: library, clock: clock}
}

// SetActiveDomain switches progress tracking to the set with the given
// ID. An empty or unknown ID clears the active set. Returns true when a
// set is active afterwards.
func (m *Manager) SetActiveDomain(setID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if setID == "" {
		m.active = nil
		return false
	}
	set, ok := m.library.Set(setID)
	if !ok {
		log.Debug().Str("set_id", setID).Msg("no achievement set for domain")
		m.active = nil
		return false
	}
	log.Info().Str("set_id", set.ID).Msg("achievement set active")
	m.active = &set
	return true
}

// SetActiveGame resolves a set by game name when the core does not
// provide an explicit set ID.
func (m *Manager) SetActiveGame(name string) bool {
	set, ok := m.library.FindSetForGame(name)
	if !ok {
		m.mu.Lock()
		m.active = nil
		m.mu.Unlock()
		return false
	}
	return m.SetActiveDomain(set.ID)
}

// ClearActive stops progress tracking, e.g. when returning to the menu.
func (m *Manager) ClearActive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = nil
}

// ActiveSet returns the definition progress is currently scoped to.
func (m *Manager) ActiveSet() (Set, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return Set{}, false
	}
	return *m.active, true
}

// AchievementCount is the declared achievement count of the active set.
// Declared, not unlocked: the config dialog uses it to decide whether to
// show the achievements tab at all.
func (m *Manager) AchievementCount() int {
	set, ok := m.ActiveSet()
	if !ok {
		return 0
	}
	return len(set.Achievements)
}

// StatCount is the declared stat count of the active set.
func (m *Manager) StatCount() int {
	set, ok := m.ActiveSet()
	if !ok {
		return 0
	}
	return len(set.Stats)
}

func (m *Manager) findAchievement(set Set, id string) (Achievement, bool) {
	for _, ach := range set.Achievements {
		if ach.ID == id {
			return ach, true
		}
	}
	return Achievement{}, false
}

func (m *Manager) findStat(set Set, id string) (Stat, bool) {
	for _, stat := range set.Stats {
		if stat.ID == id {
			return stat, true
		}
	}
	return Stat{}, false
}

// Unlock records an achievement unlock. Unlocking an already unlocked
// achievement is a no-op that keeps the original unlock time.
func (m *Manager) Unlock(id string) error {
	set, ok := m.ActiveSet()
	if !ok {
		return fmt.Errorf("cannot unlock %s: no active achievement set", id)
	}
	ach, ok := m.findAchievement(set, id)
	if !ok {
		return fmt.Errorf("set %s does not declare achievement %s", set.ID, id)
	}
	now := m.clock.Now()
	err := m.db.AddUnlock(&database.UnlockEntry{
		UnlockedAt:    now,
		SetID:         set.ID,
		AchievementID: ach.ID,
		ClockReliable: helpers.IsClockReliable(now),
	})
	if err != nil {
		return fmt.Errorf("failed to record unlock: %w", err)
	}
	log.Info().
		Str("set_id", set.ID).
		Str("achievement_id", ach.ID).
		Msg("achievement unlocked")
	return nil
}

// Unlocked reports whether an achievement has been unlocked and when.
// Storage errors are logged and read as still locked.
func (m *Manager) Unlocked(id string) (time.Time, bool) {
	set, ok := m.ActiveSet()
	if !ok {
		return time.Time{}, false
	}
	unlocks, err := m.db.GetUnlocks(set.ID)
	if err != nil {
		log.Error().Err(err).Str("set_id", set.ID).Msg("failed to read unlocks")
		return time.Time{}, false
	}
	for _, unlock := range unlocks {
		if unlock.AchievementID == id {
			return unlock.UnlockedAt, true
		}
	}
	return time.Time{}, false
}

// UnlockedCount is how many of the active set's achievements have been
// unlocked so far.
func (m *Manager) UnlockedCount() int {
	set, ok := m.ActiveSet()
	if !ok {
		return 0
	}
	count, err := m.db.UnlockCount(set.ID)
	if err != nil {
		log.Error().Err(err).Str("set_id", set.ID).Msg("failed to count unlocks")
		return 0
	}
	return count
}

// SetStat stores a statistic value for the active set.
func (m *Manager) SetStat(id string, value int64) error {
	set, ok := m.ActiveSet()
	if !ok {
		return fmt.Errorf("cannot update stat %s: no active achievement set", id)
	}
	stat, ok := m.findStat(set, id)
	if !ok {
		return fmt.Errorf("set %s does not declare stat %s", set.ID, id)
	}
	if err := m.db.UpdateStat(set.ID, stat.ID, value); err != nil {
		return fmt.Errorf("failed to store stat: %w", err)
	}
	return nil
}

// StatValue reads a statistic for the active set. Unwritten stats and
// storage errors read as zero.
func (m *Manager) StatValue(id string) int64 {
	set, ok := m.ActiveSet()
	if !ok {
		return 0
	}
	value, err := m.db.GetStat(set.ID, id)
	if err != nil {
		log.Error().Err(err).Str("set_id", set.ID).Str("stat_id", id).Msg("failed to read stat")
		return 0
	}
	return value
}

// Achievements lists the active set's achievements in declaration order
// with their unlock state, for the achievements tab.
func (m *Manager) Achievements() []AchievementStatus {
	set, ok := m.ActiveSet()
	if !ok {
		return nil
	}
	unlocked := make(map[string]time.Time, len(set.Achievements))
	unlocks, err := m.db.GetUnlocks(set.ID)
	if err != nil {
		log.Error().Err(err).Str("set_id", set.ID).Msg("failed to read unlocks")
	}
	for _, unlock := range unlocks {
		unlocked[unlock.AchievementID] = unlock.UnlockedAt
	}
	statuses := make([]AchievementStatus, 0, len(set.Achievements))
	for _, ach := range set.Achievements {
		status := AchievementStatus{Achievement: ach}
		if at, ok := unlocked[ach.ID]; ok {
			status.Unlocked = true
			status.UnlockedAt = at
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Stats lists the active set's statistics in declaration order with
// their stored values, for the statistics tab.
func (m *Manager) Stats() []StatStatus {
	set, ok := m.ActiveSet()
	if !ok {
		return nil
	}
	values := make(map[string]int64, len(set.Stats))
	stats, err := m.db.GetStats(set.ID)
	if err != nil {
		log.Error().Err(err).Str("set_id", set.ID).Msg("failed to read stats")
	}
	for _, stat := range stats {
		values[stat.StatID] = stat.Value
	}
	statuses := make([]StatStatus, 0, len(set.Stats))
	for _, stat := range set.Stats {
		statuses = append(statuses, StatStatus{Stat: stat, Value: values[stat.ID]})
	}
	return statuses
}

// ClearProgress wipes all recorded progress for the active set.
func (m *Manager) ClearProgress() error {
	set, ok := m.ActiveSet()
	if !ok {
		return errors.New("cannot clear progress: no active achievement set")
	}
	if err := m.db.ClearSet(set.ID); err != nil {
		return fmt.Errorf("failed to clear set progress: %w", err)
	}
	return nil
}
