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

// Package progressdb stores per-set achievement unlocks and gameplay
// statistics in a SQLite database under the platform data directory.
package progressdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("ProgressDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type ProgressDB struct {
	sql *sql.DB
	pl  platforms.Platform
	ctx context.Context
}

func OpenProgressDB(ctx context.Context, pl platforms.Platform) (*ProgressDB, error) {
	db := &ProgressDB{sql: nil, pl: pl, ctx: ctx}
	err := db.Open()
	return db, err
}

func (db *ProgressDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *ProgressDB) GetDBPath() string {
	return filepath.Join(helpers.DataDir(db.pl), config.AchievementsDbFile)
}

func (db *ProgressDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *ProgressDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *ProgressDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *ProgressDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *ProgressDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *ProgressDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up in-memory databases.
func (db *ProgressDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, platform platforms.Platform) error {
	db.sql = sqlDB
	db.pl = platform
	db.ctx = ctx

	// Initialize the database schema
	return db.Allocate()
}

func (db *ProgressDB) AddUnlock(entry *database.UnlockEntry) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAddUnlock(db.ctx, db.sql, entry)
}

func (db *ProgressDB) GetUnlocks(setID string) ([]database.UnlockEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetUnlocks(db.ctx, db.sql, setID)
}

func (db *ProgressDB) IsUnlocked(setID, achievementID string) (bool, error) {
	if db.sql == nil {
		return false, ErrNullSQL
	}
	return sqlIsUnlocked(db.ctx, db.sql, setID, achievementID)
}

func (db *ProgressDB) UnlockCount(setID string) (int, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlUnlockCount(db.ctx, db.sql, setID)
}

func (db *ProgressDB) UpdateStat(setID, statID string, value int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateStat(db.ctx, db.sql, setID, statID, value)
}

func (db *ProgressDB) GetStat(setID, statID string) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlGetStat(db.ctx, db.sql, setID, statID)
}

func (db *ProgressDB) GetStats(setID string) ([]database.StatEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetStats(db.ctx, db.sql, setID)
}

func (db *ProgressDB) ClearSet(setID string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlClearSet(db.ctx, db.sql, setID)
}
