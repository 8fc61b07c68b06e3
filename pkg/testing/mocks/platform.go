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
	"fmt"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of the Platform interface using
// testify/mock.
type MockPlatform struct {
	mock.Mock
	playedAudio []string // Track played audio paths for verification
}

// NewMockPlatform creates a new MockPlatform instance.
func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		playedAudio: make([]string, 0),
	}
}

// SetupBasicMock configures the mock with typical default values for basic
// operations.
func (m *MockPlatform) SetupBasicMock() {
	m.On("ID").Return("mock-platform")
	m.On("Settings").Return(platforms.Settings{})
	m.On("SupportsQuit").Return(true)
	m.On("SettingsEntries", mock.AnythingOfType("*config.Instance")).
		Return([]platforms.SettingsEntry{})
	m.On("Console").Return(platforms.NoOpConsoleManager{})
	m.On("PlayAudio", mock.AnythingOfType("string")).Return(nil)
}

// ID returns the unique ID of this platform.
func (m *MockPlatform) ID() string {
	args := m.Called()
	return args.String(0)
}

// StartPre runs any necessary platform setup BEFORE the main service has
// started running.
func (m *MockPlatform) StartPre(cfg *config.Instance) error {
	args := m.Called(cfg)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform start pre failed: %w", err)
	}
	return nil
}

// StartPost runs any necessary platform setup AFTER the main service has
// started running.
func (m *MockPlatform) StartPost(
	cfg *config.Instance,
	activeGame func() *platforms.GameInfo,
	setActiveGame func(*platforms.GameInfo),
) error {
	args := m.Called(cfg, activeGame, setActiveGame)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform start post failed: %w", err)
	}
	return nil
}

// Stop runs any necessary cleanup tasks before the rest of the service
// starts shutting down.
func (m *MockPlatform) Stop() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform stop failed: %w", err)
	}
	return nil
}

// Settings returns all simple platform-specific settings such as paths.
func (m *MockPlatform) Settings() platforms.Settings {
	args := m.Called()
	if settings, ok := args.Get(0).(platforms.Settings); ok {
		return settings
	}
	return platforms.Settings{}
}

// SupportsQuit reports whether the service process may exit on this
// platform.
func (m *MockPlatform) SupportsQuit() bool {
	args := m.Called()
	return args.Bool(0)
}

// SettingsEntries returns the rows of the backend settings tab.
func (m *MockPlatform) SettingsEntries(cfg *config.Instance) []platforms.SettingsEntry {
	args := m.Called(cfg)
	if entries, ok := args.Get(0).([]platforms.SettingsEntry); ok {
		return entries
	}
	return nil
}

// Console returns the manager used to take over and restore the system
// console around menu overlay sessions.
func (m *MockPlatform) Console() platforms.ConsoleManager {
	args := m.Called()
	if cm, ok := args.Get(0).(platforms.ConsoleManager); ok {
		return cm
	}
	return platforms.NoOpConsoleManager{}
}

// ReturnToLauncher hands control back to the platform's launcher.
func (m *MockPlatform) ReturnToLauncher(cfg *config.Instance) error {
	args := m.Called(cfg)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform return to launcher failed: %w", err)
	}
	return nil
}

// PlayAudio plays an audio file at the given path.
func (m *MockPlatform) PlayAudio(path string) error {
	m.playedAudio = append(m.playedAudio, path)
	args := m.Called(path)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform play audio failed: %w", err)
	}
	return nil
}

// GetPlayedAudio returns the audio paths played through this mock.
func (m *MockPlatform) GetPlayedAudio() []string {
	return m.playedAudio
}

// ClearHistory clears recorded audio history for test isolation.
func (m *MockPlatform) ClearHistory() {
	m.playedAudio = m.playedAudio[:0]
}
