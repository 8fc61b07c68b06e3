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

package mocks

import (
	"context"
	"fmt"

	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/stretchr/testify/mock"
)

// MockCore is a mock implementation of the Core interface using
// testify/mock.
type MockCore struct {
	mock.Mock
	savedSlots  []int // Track saved slots for verification
	loadedSlots []int // Track loaded slots for verification
}

// NewMockCore creates a new MockCore instance.
func NewMockCore() *MockCore {
	return &MockCore{
		savedSlots:  make([]int, 0),
		loadedSlots: make([]int, 0),
	}
}

// SetupBasicMock configures the mock as a fully capable core with no
// declared options, keymaps, or achievements.
func (m *MockCore) SetupBasicMock() {
	m.On("ID").Return("mock-core")
	m.On("Name").Return("Mock Core")
	m.On("HasFeature", mock.AnythingOfType("cores.Feature")).Return(true)
	m.On("CanSaveNow").Return(true, "")
	m.On("CanLoadNow").Return(true, "")
	m.On("ExtraOptions", mock.AnythingOfType("string")).Return([]cores.ExtraOption{})
	m.On("Keymaps", mock.AnythingOfType("string")).Return([]cores.Keymap{})
	m.On("AchievementsID", mock.AnythingOfType("string")).Return("")
}

// ID returns the unique ID of this core adapter.
func (m *MockCore) ID() string {
	args := m.Called()
	return args.String(0)
}

// Name returns the core's display name.
func (m *MockCore) Name() string {
	args := m.Called()
	return args.String(0)
}

// HasFeature reports whether the running core supports a capability.
func (m *MockCore) HasFeature(feature cores.Feature) bool {
	args := m.Called(feature)
	return args.Bool(0)
}

// CanSaveNow reports whether a state can be saved right now.
func (m *MockCore) CanSaveNow() (bool, string) {
	args := m.Called()
	return args.Bool(0), args.String(1)
}

// CanLoadNow reports whether a state can be loaded right now.
func (m *MockCore) CanLoadNow() (bool, string) {
	args := m.Called()
	return args.Bool(0), args.String(1)
}

// SaveState writes the current game state to a slot with a description.
func (m *MockCore) SaveState(ctx context.Context, slot int, description string) error {
	m.savedSlots = append(m.savedSlots, slot)
	args := m.Called(ctx, slot, description)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock core save state failed: %w", err)
	}
	return nil
}

// LoadState restores the game state from a slot.
func (m *MockCore) LoadState(ctx context.Context, slot int) error {
	m.loadedSlots = append(m.loadedSlots, slot)
	args := m.Called(ctx, slot)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock core load state failed: %w", err)
	}
	return nil
}

// SaveStates lists occupied slots for the running game.
func (m *MockCore) SaveStates(ctx context.Context) ([]cores.SaveStateInfo, error) {
	args := m.Called(ctx)
	var states []cores.SaveStateInfo
	if list, ok := args.Get(0).([]cores.SaveStateInfo); ok {
		states = list
	}
	if err := args.Error(1); err != nil {
		return states, fmt.Errorf("mock core save states failed: %w", err)
	}
	return states, nil
}

// DefaultSaveDescription builds the description used when the user leaves
// the slot label empty.
func (m *MockCore) DefaultSaveDescription(slot int) string {
	args := m.Called(slot)
	return args.String(0)
}

// ExtraOptions returns the core's option declarations for a game domain.
func (m *MockCore) ExtraOptions(domain string) []cores.ExtraOption {
	args := m.Called(domain)
	if opts, ok := args.Get(0).([]cores.ExtraOption); ok {
		return opts
	}
	return nil
}

// SyncOptions writes stored option states back to the core's configuration.
func (m *MockCore) SyncOptions(domain string) error {
	args := m.Called(domain)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock core option sync failed: %w", err)
	}
	return nil
}

// Keymaps returns the input binding groups for a game domain.
func (m *MockCore) Keymaps(domain string) []cores.Keymap {
	args := m.Called(domain)
	if keymaps, ok := args.Get(0).([]cores.Keymap); ok {
		return keymaps
	}
	return nil
}

// AchievementsID returns the achievement set ID for a game domain.
func (m *MockCore) AchievementsID(domain string) string {
	args := m.Called(domain)
	return args.String(0)
}

// Quit asks the core process to exit.
func (m *MockCore) Quit(ctx context.Context) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock core quit failed: %w", err)
	}
	return nil
}

// GetSavedSlots returns the slots passed to SaveState.
func (m *MockCore) GetSavedSlots() []int {
	return m.savedSlots
}

// GetLoadedSlots returns the slots passed to LoadState.
func (m *MockCore) GetLoadedSlots() []int {
	return m.loadedSlots
}
