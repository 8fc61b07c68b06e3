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

// UpdateSettingsParams updates the service-wide interface settings. Only
// non-nil fields are applied; per-game options are owned by the menu's
// config dialog and are not reachable over the API.
type UpdateSettingsParams struct {
	Theme                  *string `json:"theme" validate:"omitempty,max=64"`
	Language               *string `json:"language" validate:"omitempty,bcp47_language_tag"`
	OverlayResolution      *string `json:"overlayResolution" validate:"omitempty,resolution"`
	CompactWidth           *int    `json:"compactWidth" validate:"omitempty,gte=0,lte=500"`
	DebugLogging           *bool   `json:"debugLogging"`
	AudioFeedback          *bool   `json:"audioFeedback"`
	Mouse                  *bool   `json:"mouse"`
	ShowMenuLogo           *bool   `json:"showMenuLogo"`
	ReturnToLauncherAtExit *bool   `json:"returnToLauncherAtExit"`
}

// UnlockAchievementParams records an unlock for the active set. The ID must
// be declared by the set or the request is rejected.
type UnlockAchievementParams struct {
	ID string `json:"id" validate:"required,max=128"`
}

// UpdateStatParams writes one statistic value for the active set.
type UpdateStatParams struct {
	ID    string `json:"id" validate:"required,max=128"`
	Value int64  `json:"value"`
}
