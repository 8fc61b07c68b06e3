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

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoOpConsoleManager(t *testing.T) {
	t.Parallel()

	var cm ConsoleManager = NoOpConsoleManager{}

	assert.NoError(t, cm.Open(context.Background(), "1"))
	assert.NoError(t, cm.Close())
	assert.NoError(t, cm.Clean("1"))
	assert.NoError(t, cm.Restore("1"))
}

func TestEntryKindZeroValueIsToggle(t *testing.T) {
	t.Parallel()

	// Entries that never set Kind must render as toggles.
	entry := SettingsEntry{}
	assert.Equal(t, EntryToggle, entry.Kind)
}
