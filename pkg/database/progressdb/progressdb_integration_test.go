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

package progressdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTempProgressDB(t *testing.T) (progressDB *ProgressDB, cleanup func()) {
	// Create temp directory that the mock platform will use
	tempDir, err := os.MkdirTemp("", "intermezzo-test-progressdb-*")
	require.NoError(t, err)

	// Create a mock platform that returns our temp directory for Settings().DataDir
	mockPlatform := mocks.NewMockPlatform()
	mockPlatform.On("Settings").Return(platforms.Settings{
		DataDir: tempDir,
	})

	ctx := context.Background()
	progressDB, err = OpenProgressDB(ctx, mockPlatform)
	require.NoError(t, err)

	cleanup = func() {
		if progressDB != nil {
			_ = progressDB.Close()
		}
		_ = os.RemoveAll(tempDir)
	}

	return progressDB, cleanup
}

func TestProgressDB_OpenClose_Integration(t *testing.T) {
	progressDB, cleanup := setupTempProgressDB(t)
	defer cleanup()

	// Database should be functional after open
	err := progressDB.Truncate()
	require.NoError(t, err)

	err = progressDB.Close()
	require.NoError(t, err)

	// After close, operations should fail with database closed error
	err = progressDB.Truncate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}

func TestProgressDB_GetDBPath_Integration(t *testing.T) {
	progressDB, cleanup := setupTempProgressDB(t)
	defer cleanup()

	dbPath := progressDB.GetDBPath()
	assert.NotEmpty(t, dbPath)
	assert.Contains(t, dbPath, "achievements.db")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist at the returned path")
}

func TestUnlockRoundTrip_Integration(t *testing.T) {
	progressDB, cleanup := setupTempProgressDB(t)
	defer cleanup()

	const setID = "snes/super-game"
	firstUnlock := time.Unix(1672531200, 0)

	unlocked, err := progressDB.IsUnlocked(setID, "first-boss")
	require.NoError(t, err)
	assert.False(t, unlocked, "achievement should start locked")

	err = progressDB.AddUnlock(&database.UnlockEntry{
		UnlockedAt:    firstUnlock,
		SetID:         setID,
		AchievementID: "first-boss",
		ClockReliable: true,
	})
	require.NoError(t, err, "Should be able to record an unlock")

	unlocked, err = progressDB.IsUnlocked(setID, "first-boss")
	require.NoError(t, err)
	assert.True(t, unlocked)

	count, err := progressDB.UnlockCount(setID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A repeat unlock must not create a second row or move the timestamp
	err = progressDB.AddUnlock(&database.UnlockEntry{
		UnlockedAt:    firstUnlock.Add(time.Hour),
		SetID:         setID,
		AchievementID: "first-boss",
		ClockReliable: true,
	})
	require.NoError(t, err)

	count, err = progressDB.UnlockCount(setID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "repeat unlock should not add a row")

	unlocks, err := progressDB.GetUnlocks(setID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, "first-boss", unlocks[0].AchievementID)
	assert.Equal(t, firstUnlock.Unix(), unlocks[0].UnlockedAt.Unix(),
		"original unlock time should survive a repeat unlock")
	assert.True(t, unlocks[0].ClockReliable)
	assert.Positive(t, unlocks[0].DBID, "Should have assigned a DBID")
}

func TestStatRoundTrip_Integration(t *testing.T) {
	progressDB, cleanup := setupTempProgressDB(t)
	defer cleanup()

	const setID = "snes/super-game"

	value, err := progressDB.GetStat(setID, "deaths")
	require.NoError(t, err)
	assert.Zero(t, value, "unwritten stat should read as zero")

	err = progressDB.UpdateStat(setID, "deaths", 3)
	require.NoError(t, err)

	value, err = progressDB.GetStat(setID, "deaths")
	require.NoError(t, err)
	assert.Equal(t, int64(3), value)

	// Upsert replaces the value instead of adding a row
	err = progressDB.UpdateStat(setID, "deaths", 7)
	require.NoError(t, err)

	value, err = progressDB.GetStat(setID, "deaths")
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)

	err = progressDB.UpdateStat(setID, "playtime_minutes", 90)
	require.NoError(t, err)

	stats, err := progressDB.GetStats(setID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "deaths", stats[0].StatID)
	assert.Equal(t, int64(7), stats[0].Value)
	assert.Equal(t, "playtime_minutes", stats[1].StatID)
	assert.Equal(t, int64(90), stats[1].Value)
}

func TestClearSet_Integration(t *testing.T) {
	progressDB, cleanup := setupTempProgressDB(t)
	defer cleanup()

	const clearedSet = "snes/super-game"
	const keptSet = "genesis/other-game"

	for _, setID := range []string{clearedSet, keptSet} {
		err := progressDB.AddUnlock(&database.UnlockEntry{
			UnlockedAt:    time.Now(),
			SetID:         setID,
			AchievementID: "first-boss",
			ClockReliable: true,
		})
		require.NoError(t, err)
		err = progressDB.UpdateStat(setID, "deaths", 5)
		require.NoError(t, err)
	}

	err := progressDB.ClearSet(clearedSet)
	require.NoError(t, err)

	count, err := progressDB.UnlockCount(clearedSet)
	require.NoError(t, err)
	assert.Zero(t, count, "cleared set should have no unlocks")

	value, err := progressDB.GetStat(clearedSet, "deaths")
	require.NoError(t, err)
	assert.Zero(t, value, "cleared set should have no stats")

	// The other set's progress is untouched
	count, err = progressDB.UnlockCount(keptSet)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	value, err = progressDB.GetStat(keptSet, "deaths")
	require.NoError(t, err)
	assert.Equal(t, int64(5), value)

	// Reclaim the space the cleared rows held
	err = progressDB.Vacuum()
	require.NoError(t, err)

	count, err = progressDB.UnlockCount(keptSet)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "vacuum should not disturb remaining progress")
}

func TestProgressDB_WALMode_Integration(t *testing.T) {
	progressDB, cleanup := setupTempProgressDB(t)
	defer cleanup()

	// The connection string requests WAL journaling; confirm it took.
	var mode string
	row := progressDB.UnsafeGetSQLDb().QueryRowContext(context.Background(), "pragma journal_mode")
	require.NoError(t, row.Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestProgressDB_NotConnected(t *testing.T) {
	t.Parallel()

	db := &ProgressDB{}

	err := db.AddUnlock(&database.UnlockEntry{})
	require.ErrorIs(t, err, ErrNullSQL)

	_, err = db.GetUnlocks("snes/super-game")
	require.ErrorIs(t, err, ErrNullSQL)

	_, err = db.IsUnlocked("snes/super-game", "first-boss")
	require.ErrorIs(t, err, ErrNullSQL)

	_, err = db.GetStat("snes/super-game", "deaths")
	require.ErrorIs(t, err, ErrNullSQL)

	err = db.ClearSet("snes/super-game")
	require.ErrorIs(t, err, ErrNullSQL)

	// Close on a disconnected database is a no-op
	require.NoError(t, db.Close())
}
