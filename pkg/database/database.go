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

package database

import (
	"database/sql"
	"errors"
)

/*
 * Records and interfaces shared between the store implementation and its
 * consumers. Concrete storage lives in userdb.
 */

var ErrEntryNotFound = errors.New("entry not found")

type EntryType string

const (
	EntryTypePlace  EntryType = "place"
	EntryTypePerson EntryType = "person"
)

// Entry is a saved place or person bound to an IANA time zone.
type Entry struct {
	Type               EntryType `json:"type" csv:"type" validate:"required,oneof=place person"`
	Name               string    `json:"name" csv:"name"`
	City               string    `json:"city" csv:"city"`
	Country            string    `json:"country" csv:"country"`
	TimezoneIdentifier string    `json:"timezoneIdentifier" csv:"timezone" validate:"omitempty,timezone"`
	Flag               string    `json:"flag,omitempty" csv:"flag"`
	PhotoData          string    `json:"photoData,omitempty" csv:"photo"`
	ID                 int64     `json:"id" csv:"id"`
}

// DisplayName is the name shown for the entry, falling back to the city.
func (e *Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.City
}

/*
 * Interfaces for external deps
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

// EntryStore is the persistent collection of entries. Subscribers receive
// the full current set whenever it changes; ordering is not significant.
type EntryStore interface {
	AddEntry(e *Entry) error
	GetEntry(id int64) (Entry, error)
	GetAllEntries() ([]Entry, error)
	UpdateEntry(e *Entry) error
	DeleteEntry(id int64) error
	Subscribe(bufferSize int) (<-chan []Entry, int)
	Unsubscribe(id int)
}

type UserDBI interface {
	GenericDBI
	EntryStore
}
