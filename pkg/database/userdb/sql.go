// There
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of There.
//
// There is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// There is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with There.  If not, see <http://www.gnu.org/licenses/>.

package userdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Entries;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

// nullString stores empty optional columns as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

//nolint:gocritic // struct passed for DB insertion
func sqlAddEntry(ctx context.Context, db *sql.DB, e database.Entry) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Entries(
			DBID, Type, Name, City, Country, TimezoneIdentifier, Flag, PhotoData
		) values (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx,
		e.ID,
		string(e.Type),
		e.Name,
		e.City,
		e.Country,
		e.TimezoneIdentifier,
		nullString(e.Flag),
		nullString(e.PhotoData),
	)
	if err != nil {
		return fmt.Errorf("failed to execute entry insert: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (database.Entry, error) {
	var e database.Entry
	var entryType string
	var flag, photo sql.NullString
	err := row.Scan(
		&e.ID,
		&entryType,
		&e.Name,
		&e.City,
		&e.Country,
		&e.TimezoneIdentifier,
		&flag,
		&photo,
	)
	if err != nil {
		return e, err //nolint:wrapcheck // callers wrap with context
	}
	e.Type = database.EntryType(entryType)
	e.Flag = flag.String
	e.PhotoData = photo.String
	return e, nil
}

func sqlGetEntry(ctx context.Context, db *sql.DB, id int64) (database.Entry, error) {
	q, err := db.PrepareContext(ctx, `
		select
		DBID, Type, Name, City, Country, TimezoneIdentifier, Flag, PhotoData
		from Entries
		where DBID = ?;
	`)
	if err != nil {
		return database.Entry{}, fmt.Errorf("failed to prepare entry select statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	e, err := scanEntry(q.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("%w: %d", database.ErrEntryNotFound, id)
	} else if err != nil {
		return e, fmt.Errorf("failed to scan entry row: %w", err)
	}
	return e, nil
}

func sqlGetAllEntries(ctx context.Context, db *sql.DB) ([]database.Entry, error) {
	list := make([]database.Entry, 0)

	q, err := db.PrepareContext(ctx, `
		select
		DBID, Type, Name, City, Country, TimezoneIdentifier, Flag, PhotoData
		from Entries
		order by DBID;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare get all entries statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to execute get all entries query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row, scanErr := scanEntry(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		list = append(list, row)
	}
	err = rows.Err()
	if err != nil {
		return list, fmt.Errorf("failed to iterate over entry rows: %w", err)
	}
	return list, nil
}

//nolint:gocritic // struct passed for DB update
func sqlUpdateEntry(ctx context.Context, db *sql.DB, e database.Entry) error {
	stmt, err := db.PrepareContext(ctx, `
		update Entries set
			Type = ?,
			Name = ?,
			City = ?,
			Country = ?,
			TimezoneIdentifier = ?,
			Flag = ?,
			PhotoData = ?
		where
			DBID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare update entry statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	res, err := stmt.ExecContext(ctx,
		string(e.Type),
		e.Name,
		e.City,
		e.Country,
		e.TimezoneIdentifier,
		nullString(e.Flag),
		nullString(e.PhotoData),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update entry statement: %w", err)
	}
	return requireAffected(res, e.ID)
}

func sqlDeleteEntry(ctx context.Context, db *sql.DB, id int64) error {
	stmt, err := db.PrepareContext(ctx, `
		delete from Entries where DBID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute entry delete: %w", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", database.ErrEntryNotFound, id)
	}
	return nil
}
