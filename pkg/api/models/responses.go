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

package models

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

// GameResponse describes the active game inside a status response.
type GameResponse struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	CoreID string `json:"coreId"`
	Path   string `json:"path,omitempty"`
}

// SystemStats carries host statistics read at request time. Fields read
// as zero when the host does not expose the underlying counter.
type SystemStats struct {
	UptimeSeconds int64   `json:"uptimeSeconds"`
	MemoryTotal   uint64  `json:"memoryTotal"`
	MemoryUsed    uint64  `json:"memoryUsed"`
	LoadAverage1  float64 `json:"loadAverage1"`
}

type StatusResponse struct {
	Game          *GameResponse `json:"game,omitempty"`
	Version       string        `json:"version"`
	Platform      string        `json:"platform"`
	System        SystemStats   `json:"system"`
	StartedAt     int64         `json:"startedAt"`
	UptimeSeconds int64         `json:"uptimeSeconds"`
	MenuOpen      bool          `json:"menuOpen"`
}

type SettingsResponse struct {
	Theme                  string `json:"theme"`
	Language               string `json:"language"`
	OverlayResolution      string `json:"overlayResolution"`
	CompactWidth           int    `json:"compactWidth"`
	DebugLogging           bool   `json:"debugLogging"`
	AudioFeedback          bool   `json:"audioFeedback"`
	Mouse                  bool   `json:"mouse"`
	ShowMenuLogo           bool   `json:"showMenuLogo"`
	ReturnToLauncherAtExit bool   `json:"returnToLauncherAtExit"`
}

// StateSavedParams is the payload of a state.saved notification.
type StateSavedParams struct {
	Description string `json:"description"`
	Slot        int    `json:"slot"`
}

// AchievementResponse is one declared achievement with its unlock state.
// UnlockedAt is unix seconds, zero while locked or when the unlock was
// recorded with an unreliable clock.
type AchievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  int64  `json:"unlockedAt,omitempty"`
}

// StatResponse is one declared statistic with its stored value.
type StatResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// AchievementsResponse is the progress of the active achievement set. A
// zero SetID means no set is active for the running game.
type AchievementsResponse struct {
	SetID        string                `json:"setId"`
	GameName     string                `json:"gameName"`
	Achievements []AchievementResponse `json:"achievements"`
	Stats        []StatResponse        `json:"stats"`
}
