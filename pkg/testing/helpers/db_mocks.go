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

// Package helpers provides testing utilities for database operations.
//
// This package includes a mock implementation of the user database interface
// and helpers for setting up a real SQLite store in a temp directory.
//
// Example usage:
//
//	func TestEntryOperations(t *testing.T) {
//		userDB := helpers.NewMockUserDBI()
//		userDB.On("AddEntry", helpers.EntryMatcher()).Return(nil)
//
//		err := MyFunction(userDB)
//
//		require.NoError(t, err)
//		userDB.AssertExpectations(t)
//	}
package helpers

import (
	"database/sql"
	"fmt"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockUserDBI is a mock implementation of the UserDBI interface using testify/mock
type MockUserDBI struct {
	mock.Mock
}

// GenericDBI methods
func (m *MockUserDBI) Open() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI open failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockUserDBI) Truncate() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI truncate failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Allocate() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI allocate failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) MigrateUp() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI migrate up failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Vacuum() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI vacuum failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI close failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

// EntryStore methods
func (m *MockUserDBI) AddEntry(e *database.Entry) error {
	args := m.Called(e)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI add entry failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) GetEntry(id int64) (database.Entry, error) {
	args := m.Called(id)
	entry, _ := args.Get(0).(database.Entry)
	if err := args.Error(1); err != nil {
		return entry, fmt.Errorf("mock UserDBI get entry failed: %w", err)
	}
	return entry, nil
}

func (m *MockUserDBI) GetAllEntries() ([]database.Entry, error) {
	args := m.Called()
	entries, _ := args.Get(0).([]database.Entry)
	if err := args.Error(1); err != nil {
		return entries, fmt.Errorf("mock UserDBI get all entries failed: %w", err)
	}
	return entries, nil
}

func (m *MockUserDBI) UpdateEntry(e *database.Entry) error {
	args := m.Called(e)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI update entry failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) DeleteEntry(id int64) error {
	args := m.Called(id)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI delete entry failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Subscribe(bufferSize int) (ch <-chan []database.Entry, id int) {
	args := m.Called(bufferSize)
	if c, ok := args.Get(0).(chan []database.Entry); ok {
		ch = c
	} else if c, ok := args.Get(0).(<-chan []database.Entry); ok {
		ch = c
	}
	return ch, args.Int(1)
}

func (m *MockUserDBI) Unsubscribe(id int) {
	m.Called(id)
}

// NewMockUserDBI creates a new mock UserDBI interface for testing.
func NewMockUserDBI() *MockUserDBI {
	return &MockUserDBI{}
}

// EntryMatcher matches any non-nil entry pointer.
func EntryMatcher() any {
	return mock.MatchedBy(func(e *database.Entry) bool {
		return e != nil
	})
}

// EntryWithFlag matches an entry pointer whose flag equals flag.
func EntryWithFlag(flag string) any {
	return mock.MatchedBy(func(e *database.Entry) bool {
		return e != nil && e.Flag == flag
	})
}
