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

package assets

import (
	"embed"
	"fmt"
)

// Banner is the text logo shown above the main menu when the
// ui.show_menu_logo setting is on.
//
//go:embed banner.txt
var Banner string

// SuccessSound is a short generated blip played for confirmed actions when
// audio feedback is enabled.
//
//go:embed sounds/success.wav
var SuccessSound []byte

// FailSound is a short generated blip played for rejected actions.
//
//go:embed sounds/fail.wav
var FailSound []byte

// AchievementsDir is the directory name inside the Achievements filesystem.
const AchievementsDir = "achievements"

// Achievements holds the achievement set definitions bundled with the
// service. User files in the data dir override bundled sets with the
// same ID.
//
//go:embed achievements/*.yaml
var Achievements embed.FS

//go:embed help/*.txt
var helpFiles embed.FS

// GetHelpText returns the menu help text for a language, falling back to
// English when the language has no translation.
func GetHelpText(language string) (string, error) {
	data, err := helpFiles.ReadFile("help/" + language + ".txt")
	if err != nil {
		data, err = helpFiles.ReadFile("help/en.txt")
		if err != nil {
			return "", fmt.Errorf("failed to read help text: %w", err)
		}
	}
	return string(data), nil
}
