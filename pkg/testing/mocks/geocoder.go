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

// Package mocks holds testify mocks for the network-facing interfaces.
package mocks

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/there/pkg/search"
	"github.com/stretchr/testify/mock"
)

// MockGeocoder is a mock implementation of search.Geocoder.
type MockGeocoder struct {
	mock.Mock
}

func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{}
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) ([]search.Result, error) {
	args := m.Called(ctx, query)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock Geocoder geocode failed: %w", err)
	}
	if results, ok := args.Get(0).([]search.Result); ok {
		return results, nil
	}
	return nil, nil
}
