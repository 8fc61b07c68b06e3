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
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run progress database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Unlocks;
	delete from Stats;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, "vacuum;")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

// sqlAddUnlock inserts an unlock if the achievement has not been unlocked
// before. A repeat unlock is a no-op so the original unlock time survives.
func sqlAddUnlock(ctx context.Context, db *sql.DB, entry *database.UnlockEntry) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Unlocks(
			SetID, AchievementID, UnlockedAt, ClockReliable
		) values (?, ?, ?, ?)
		on conflict (SetID, AchievementID) do nothing;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare unlock insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx,
		entry.SetID,
		entry.AchievementID,
		entry.UnlockedAt.Unix(),
		entry.ClockReliable,
	)
	if err != nil {
		return fmt.Errorf("failed to execute unlock insert statement: %w", err)
	}
	return nil
}

func sqlGetUnlocks(ctx context.Context, db *sql.DB, setID string) ([]database.UnlockEntry, error) {
	var list []database.UnlockEntry
	q, err := db.PrepareContext(ctx, `
		select DBID, SetID, AchievementID, UnlockedAt, ClockReliable
		from Unlocks
		where SetID = ?
		order by UnlockedAt asc, DBID asc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare unlocks query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, setID)
	if err != nil {
		return list, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row := database.UnlockEntry{}
		var timeInt int64
		scanErr := rows.Scan(
			&row.DBID,
			&row.SetID,
			&row.AchievementID,
			&timeInt,
			&row.ClockReliable,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan unlock row: %w", scanErr)
		}
		row.UnlockedAt = time.Unix(timeInt, 0)
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating unlock rows: %w", err)
	}
	return list, nil
}

func sqlIsUnlocked(ctx context.Context, db *sql.DB, setID, achievementID string) (bool, error) {
	row := db.QueryRowContext(ctx, `
		select DBID from Unlocks where SetID = ? and AchievementID = ?;
	`, setID, achievementID)

	var dbid int64
	err := row.Scan(&dbid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to scan unlock row: %w", err)
	}

	return true, nil
}

func sqlUnlockCount(ctx context.Context, db *sql.DB, setID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`select count(*) from Unlocks where SetID = ?;`,
		setID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to scan unlock count: %w", err)
	}
	return count, nil
}

func sqlUpdateStat(ctx context.Context, db *sql.DB, setID, statID string, value int64) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Stats(
			SetID, StatID, Value, UpdatedAt
		) values (?, ?, ?, ?)
		on conflict (SetID, StatID) do update set
			Value = excluded.Value,
			UpdatedAt = excluded.UpdatedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare stat upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx, setID, statID, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to execute stat upsert statement: %w", err)
	}
	return nil
}

// sqlGetStat returns the stored value, or zero for a stat that has never
// been written.
func sqlGetStat(ctx context.Context, db *sql.DB, setID, statID string) (int64, error) {
	var value int64
	err := db.QueryRowContext(ctx,
		`select Value from Stats where SetID = ? and StatID = ?;`,
		setID, statID,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to scan stat row: %w", err)
	}
	return value, nil
}

func sqlGetStats(ctx context.Context, db *sql.DB, setID string) ([]database.StatEntry, error) {
	var list []database.StatEntry
	q, err := db.PrepareContext(ctx, `
		select DBID, SetID, StatID, Value, UpdatedAt
		from Stats
		where SetID = ?
		order by StatID asc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare stats query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, setID)
	if err != nil {
		return list, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row := database.StatEntry{}
		var timeInt int64
		scanErr := rows.Scan(
			&row.DBID,
			&row.SetID,
			&row.StatID,
			&row.Value,
			&timeInt,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan stat row: %w", scanErr)
		}
		row.UpdatedAt = time.Unix(timeInt, 0)
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating stat rows: %w", err)
	}
	return list, nil
}

// sqlClearSet wipes all recorded progress for one set. The deletes run as
// separate statements because the sqlite3 driver rejects parameters in a
// multi-statement exec.
func sqlClearSet(ctx context.Context, db *sql.DB, setID string) error {
	for _, table := range []string{"Unlocks", "Stats"} {
		stmt, err := db.PrepareContext(ctx,
			fmt.Sprintf(`delete from %s where SetID = ?;`, table))
		if err != nil {
			return fmt.Errorf("failed to prepare %s clear statement: %w", table, err)
		}
		_, err = stmt.ExecContext(ctx, setID)
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
		if err != nil {
			return fmt.Errorf("failed to clear %s for set: %w", table, err)
		}
	}
	return nil
}
