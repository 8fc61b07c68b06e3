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

package helpers

import "time"

const (
	// MinReliableYear is the earliest year considered valid for the system clock.
	// Intermezzo was first released in 2025 - any earlier date indicates an
	// unset clock.
	MinReliableYear = 2025
)

// IsClockReliable checks if the system clock appears to be set correctly.
// Returns false if the clock is clearly wrong (e.g., year < 2025).
// This handles MiSTer's lack of RTC chip - clock often resets to epoch on boot.
func IsClockReliable(t time.Time) bool {
	return t.Year() >= MinReliableYear
}
