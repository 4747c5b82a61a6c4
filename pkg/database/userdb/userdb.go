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
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/ZaparooProject/there/pkg/service/broker"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

var ErrNullSQL = errors.New("UserDB is not connected")

const (
	sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"
	maxIDAttempts    = 5
)

type UserDB struct {
	sql     *sql.DB
	ctx     context.Context
	bctx    context.Context
	cancel  context.CancelFunc
	changes chan []database.Entry
	broker  *broker.Broker[[]database.Entry]
	dataDir string
	// serializes writes so published snapshots arrive in write order
	writeMu syncutil.Mutex
}

func OpenUserDB(ctx context.Context, dataDir string) (*UserDB, error) {
	db := &UserDB{}
	db.setup(ctx, dataDir)
	err := db.Open()
	return db, err
}

// setup starts the snapshot broker. It runs once per UserDB.
func (db *UserDB) setup(ctx context.Context, dataDir string) {
	if db.broker != nil {
		return
	}
	bctx, cancel := context.WithCancel(ctx)
	db.ctx = ctx
	db.bctx = bctx
	db.cancel = cancel
	db.changes = make(chan []database.Entry, 1)
	db.dataDir = dataDir
	db.broker = broker.NewBroker(bctx, db.changes)
	db.broker.Start()
}

func (db *UserDB) Open() error {
	dbPath := db.GetDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for database: %w", err)
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if err := db.MigrateUp(); err != nil {
		return err
	}
	db.publish()
	return nil
}

func (db *UserDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.UserDbFile)
}

func (db *UserDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *UserDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	if err := sqlTruncate(db.ctx, db.sql); err != nil {
		return err
	}
	db.publish()
	return nil
}

func (db *UserDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *UserDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *UserDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *UserDB) Close() error {
	if db.cancel != nil {
		db.cancel()
	}
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
func (db *UserDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, dataDir string) error {
	db.setup(ctx, dataDir)
	db.sql = sqlDB
	if err := db.Allocate(); err != nil {
		return err
	}
	db.publish()
	return nil
}

// AddEntry validates and stores a new entry. An entry without an ID is
// given a random positive one, which is written back to e.
func (db *UserDB) AddEntry(e *database.Entry) error {
	if err := database.ValidateEntry(e); err != nil {
		return err
	}
	if db.sql == nil {
		return ErrNullSQL
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	assign := e.ID == 0
	for attempt := 1; ; attempt++ {
		if assign {
			e.ID = newEntryID()
		}
		err := sqlAddEntry(db.ctx, db.sql, *e)
		if err == nil {
			break
		}
		if !assign || !isPrimaryKeyConflict(err) || attempt >= maxIDAttempts {
			if assign {
				e.ID = 0
			}
			return err
		}
		log.Debug().Int64("id", e.ID).Msg("entry id collision, retrying")
	}

	db.publish()
	return nil
}

func (db *UserDB) GetEntry(id int64) (database.Entry, error) {
	if db.sql == nil {
		return database.Entry{}, ErrNullSQL
	}
	return sqlGetEntry(db.ctx, db.sql, id)
}

func (db *UserDB) GetAllEntries() ([]database.Entry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetAllEntries(db.ctx, db.sql)
}

func (db *UserDB) UpdateEntry(e *database.Entry) error {
	if err := database.ValidateEntry(e); err != nil {
		return err
	}
	if db.sql == nil {
		return ErrNullSQL
	}
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	if err := sqlUpdateEntry(db.ctx, db.sql, *e); err != nil {
		return err
	}
	db.publish()
	return nil
}

func (db *UserDB) DeleteEntry(id int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	if err := sqlDeleteEntry(db.ctx, db.sql, id); err != nil {
		return err
	}
	db.publish()
	return nil
}

// Subscribe returns a channel carrying the full entry set after every
// change. The current set is delivered immediately.
func (db *UserDB) Subscribe(bufferSize int) (ch <-chan []database.Entry, id int) {
	return db.broker.Subscribe(bufferSize)
}

func (db *UserDB) Unsubscribe(id int) {
	db.broker.Unsubscribe(id)
}

// publish reads the current entry set and hands it to the broker. Callers
// that write must hold writeMu.
func (db *UserDB) publish() {
	entries, err := sqlGetAllEntries(db.ctx, db.sql)
	if err != nil {
		log.Error().Err(err).Msg("failed to read entries for subscribers")
		return
	}
	select {
	case db.changes <- entries:
	case <-db.bctx.Done():
	}
}

func newEntryID() int64 {
	return rand.Int64N(1<<62) + 1 //nolint:gosec // identifiers, not secrets
}

func isPrimaryKeyConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
