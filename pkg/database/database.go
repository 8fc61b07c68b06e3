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

// Package database holds the record types and interfaces shared by the
// concrete database packages, plus the goose migration runner they use.
// Keeping the interfaces here avoids import cycles with the packages that
// consume them.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/helpers/syncutil"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// Database is a portable handle to every store the service owns.
type Database struct {
	Progress ProgressDBI
}

/*
 * Structs for SQL records
 */

// UnlockEntry records one achievement unlock within a set.
type UnlockEntry struct {
	UnlockedAt    time.Time `json:"unlockedAt"`
	SetID         string    `json:"setId"`
	AchievementID string    `json:"achievementId"`
	DBID          int64     `db:"DBID" json:"id"`
	// ClockReliable is false when the unlock was recorded on a machine whose
	// clock had not been set, in which case UnlockedAt is untrustworthy.
	ClockReliable bool `json:"clockReliable"`
}

// StatEntry is one persisted gameplay statistic within a set.
type StatEntry struct {
	UpdatedAt time.Time `json:"updatedAt"`
	SetID     string    `json:"setId"`
	StatID    string    `json:"statId"`
	Value     int64     `json:"value"`
	DBID      int64     `db:"DBID" json:"id"`
}

/*
 * Interfaces for environment bindings
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type ProgressDBI interface {
	GenericDBI
	AddUnlock(entry *UnlockEntry) error
	GetUnlocks(setID string) ([]UnlockEntry, error)
	IsUnlocked(setID, achievementID string) (bool, error)
	UnlockCount(setID string) (int, error)
	UpdateStat(setID, statID string, value int64) error
	GetStat(setID, statID string) (int64, error)
	GetStats(setID string) ([]StatEntry, error)
	ClearSet(setID string) error
}

var migrationMutex syncutil.Mutex

// gooseZerologAdapter implements goose.Logger interface to redirect
// goose output to zerolog instead of stdout
type gooseZerologAdapter struct{}

func (*gooseZerologAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (*gooseZerologAdapter) Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

// MigrateUp provides thread-safe database migration using goose.
// It locks access to goose's global state to prevent race conditions
// between multiple databases setting their migration filesystems.
func MigrateUp(db *sql.DB, migrationFiles embed.FS, migrationDir string) error {
	log.Debug().Msg("waiting for migration mutex")
	migrationMutex.Lock()
	log.Debug().Msg("migration mutex acquired")
	defer func() {
		migrationMutex.Unlock()
		log.Debug().Msg("migration mutex released")
	}()

	// Redirect goose output to zerolog
	goose.SetLogger(&gooseZerologAdapter{})
	goose.SetBaseFS(migrationFiles)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}

	log.Debug().Str("migration_dir", migrationDir).Msg("running goose up migrations")
	if err := goose.Up(db, migrationDir); err != nil {
		return fmt.Errorf("error running migrations up: %w", err)
	}

	return nil
}
