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

package platforms

import "context"

// ConsoleManager handles platform-specific console/TTY switching. The menu
// overlay renders on the system console, so platforms that normally hold the
// framebuffer (MiSTer) must release it before the overlay opens and reclaim
// it after.
type ConsoleManager interface {
	// Open switches to console mode on the specified VT. The provided
	// context can be used to cancel the operation if the overlay is
	// dismissed before the switch completes.
	Open(ctx context.Context, vt string) error

	// Close exits console mode and returns to the running game's display.
	Close() error

	// Clean prepares a console for use (clears screen, hides cursor).
	Clean(vt string) error

	// Restore restores console cursor state.
	Restore(vt string) error
}

// NoOpConsoleManager is a console manager that does nothing. Used by
// platforms where the overlay runs in an ordinary terminal.
type NoOpConsoleManager struct{}

func (NoOpConsoleManager) Open(_ context.Context, _ string) error { return nil }
func (NoOpConsoleManager) Close() error                           { return nil }
func (NoOpConsoleManager) Clean(_ string) error                   { return nil }
func (NoOpConsoleManager) Restore(_ string) error                 { return nil }
