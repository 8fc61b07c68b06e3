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
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IntermezzoProject/intermezzo/pkg/database"
	testsqlmock "github.com/IntermezzoProject/intermezzo/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlAddUnlock_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	entry := database.UnlockEntry{
		UnlockedAt:    now,
		SetID:         "snes/super-game",
		AchievementID: "first-boss",
		ClockReliable: true,
	}

	mock.ExpectPrepare(`insert into Unlocks.*values`).
		ExpectExec().
		WithArgs(entry.SetID, entry.AchievementID, entry.UnlockedAt.Unix(), entry.ClockReliable).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sqlAddUnlock(context.Background(), db, &entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlAddUnlock_DuplicateIsNoOp(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	entry := database.UnlockEntry{
		UnlockedAt:    time.Unix(1672531200, 0),
		SetID:         "snes/super-game",
		AchievementID: "first-boss",
		ClockReliable: true,
	}

	// on conflict do nothing reports zero rows affected for a repeat unlock
	mock.ExpectPrepare(`insert into Unlocks.*values`).
		ExpectExec().
		WithArgs(entry.SetID, entry.AchievementID, entry.UnlockedAt.Unix(), entry.ClockReliable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = sqlAddUnlock(context.Background(), db, &entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlAddUnlock_DatabaseError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	entry := database.UnlockEntry{
		UnlockedAt:    time.Now(),
		SetID:         "snes/super-game",
		AchievementID: "first-boss",
		ClockReliable: true,
	}

	mock.ExpectPrepare(`insert into Unlocks.*values`).
		ExpectExec().
		WithArgs(entry.SetID, entry.AchievementID, entry.UnlockedAt.Unix(), entry.ClockReliable).
		WillReturnError(sqlmock.ErrCancelled)

	err = sqlAddUnlock(context.Background(), db, &entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute unlock insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetUnlocks_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectedEntries := []database.UnlockEntry{
		{
			DBID:          1,
			SetID:         "snes/super-game",
			AchievementID: "first-boss",
			UnlockedAt:    time.Unix(1672531100, 0),
			ClockReliable: true,
		},
		{
			DBID:          2,
			SetID:         "snes/super-game",
			AchievementID: "no-damage-run",
			UnlockedAt:    time.Unix(1672531200, 0),
			ClockReliable: false,
		},
	}

	rows := sqlmock.NewRows([]string{"DBID", "SetID", "AchievementID", "UnlockedAt", "ClockReliable"})
	for _, entry := range expectedEntries {
		rows.AddRow(entry.DBID, entry.SetID, entry.AchievementID, entry.UnlockedAt.Unix(), entry.ClockReliable)
	}

	mock.ExpectPrepare(`select.*from Unlocks.*where SetID.*order by`).
		ExpectQuery().
		WithArgs("snes/super-game").
		WillReturnRows(rows)

	result, err := sqlGetUnlocks(context.Background(), db, "snes/super-game")
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, expectedEntries[0].AchievementID, result[0].AchievementID)
	assert.Equal(t, expectedEntries[0].UnlockedAt.Unix(), result[0].UnlockedAt.Unix())
	assert.Equal(t, expectedEntries[1].AchievementID, result[1].AchievementID)
	assert.False(t, result[1].ClockReliable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetUnlocks_NoRows(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"DBID", "SetID", "AchievementID", "UnlockedAt", "ClockReliable"})

	mock.ExpectPrepare(`select.*from Unlocks.*where SetID.*order by`).
		ExpectQuery().
		WithArgs("snes/unknown-game").
		WillReturnRows(rows)

	result, err := sqlGetUnlocks(context.Background(), db, "snes/unknown-game")
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlIsUnlocked_Found(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"DBID"}).AddRow(int64(7))

	mock.ExpectQuery(`select DBID from Unlocks where SetID`).
		WithArgs("snes/super-game", "first-boss").
		WillReturnRows(rows)

	unlocked, err := sqlIsUnlocked(context.Background(), db, "snes/super-game", "first-boss")
	require.NoError(t, err)
	assert.True(t, unlocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlIsUnlocked_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`select DBID from Unlocks where SetID`).
		WithArgs("snes/super-game", "secret-ending").
		WillReturnError(sql.ErrNoRows)

	unlocked, err := sqlIsUnlocked(context.Background(), db, "snes/super-game", "secret-ending")
	require.NoError(t, err)
	assert.False(t, unlocked, "missing unlock row should report not unlocked without an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUnlockCount_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"count(*)"}).AddRow(3)

	mock.ExpectQuery(`select count\(\*\) from Unlocks where SetID`).
		WithArgs("snes/super-game").
		WillReturnRows(rows)

	count, err := sqlUnlockCount(context.Background(), db, "snes/super-game")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpdateStat_Upsert(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`insert into Stats.*on conflict.*do update`).
		ExpectExec().
		WithArgs("snes/super-game", "deaths", int64(12), sqlmock.AnyArg()). // UpdatedAt is stamped internally
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sqlUpdateStat(context.Background(), db, "snes/super-game", "deaths", 12)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpdateStat_DatabaseError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`insert into Stats.*on conflict.*do update`).
		ExpectExec().
		WithArgs("snes/super-game", "deaths", int64(12), sqlmock.AnyArg()).
		WillReturnError(sqlmock.ErrCancelled)

	err = sqlUpdateStat(context.Background(), db, "snes/super-game", "deaths", 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute stat upsert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetStat_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"Value"}).AddRow(int64(42))

	mock.ExpectQuery(`select Value from Stats where SetID`).
		WithArgs("snes/super-game", "playtime_minutes").
		WillReturnRows(rows)

	value, err := sqlGetStat(context.Background(), db, "snes/super-game", "playtime_minutes")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetStat_Missing(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`select Value from Stats where SetID`).
		WithArgs("snes/super-game", "never-written").
		WillReturnError(sql.ErrNoRows)

	value, err := sqlGetStat(context.Background(), db, "snes/super-game", "never-written")
	require.NoError(t, err)
	assert.Zero(t, value, "a stat that was never written should read as zero")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetStats_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Unix(1672531200, 0)
	rows := sqlmock.NewRows([]string{"DBID", "SetID", "StatID", "Value", "UpdatedAt"}).
		AddRow(int64(1), "snes/super-game", "deaths", int64(12), now.Unix()).
		AddRow(int64(2), "snes/super-game", "playtime_minutes", int64(90), now.Unix())

	mock.ExpectPrepare(`select.*from Stats.*where SetID.*order by`).
		ExpectQuery().
		WithArgs("snes/super-game").
		WillReturnRows(rows)

	result, err := sqlGetStats(context.Background(), db, "snes/super-game")
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "deaths", result[0].StatID)
	assert.Equal(t, int64(12), result[0].Value)
	assert.Equal(t, now.Unix(), result[0].UpdatedAt.Unix())
	assert.Equal(t, "playtime_minutes", result[1].StatID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlClearSet_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`delete from Unlocks where SetID`).
		ExpectExec().
		WithArgs("snes/super-game").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectPrepare(`delete from Stats where SetID`).
		ExpectExec().
		WithArgs("snes/super-game").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = sqlClearSet(context.Background(), db, "snes/super-game")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlClearSet_DatabaseError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`delete from Unlocks where SetID`).
		ExpectExec().
		WithArgs("snes/super-game").
		WillReturnError(sqlmock.ErrCancelled)

	err = sqlClearSet(context.Background(), db, "snes/super-game")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear Unlocks")
	assert.NoError(t, mock.ExpectationsWereMet())
}
