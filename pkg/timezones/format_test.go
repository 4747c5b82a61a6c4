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

package timezones

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want    string
		hours   int
		minutes int
	}{
		{hours: 0, minutes: 0, want: "same time"},
		{hours: 3, minutes: 30, want: "+3.5"},
		{hours: -2, minutes: 0, want: "-2.0"},
		{hours: -9, minutes: 0, want: "-9.0"},
		{hours: -3, minutes: -30, want: "-3.5"},
		{hours: 0, minutes: 30, want: "+0.5"},
		{hours: 0, minutes: -30, want: "-0.5"},
		{hours: 12, minutes: 0, want: "+12.0"},
		{hours: 5, minutes: 45, want: "+5.8"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDelta(tt.hours, tt.minutes), "%d:%d", tt.hours, tt.minutes)
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.January, 15, 12, 5, 0, 0, time.UTC)

	assert.Equal(t, "21:05", FormatClock("Asia/Tokyo", at, true))
	assert.Equal(t, "9:05 PM", FormatClock("Asia/Tokyo", at, false))
	assert.Equal(t, "07:05", FormatClock("America/New_York", at, true))
	assert.Equal(t, "12:05", FormatClock("", at, true))
	assert.Equal(t, "12:05 PM", FormatClock("Not/AZone", at, false))
}

func TestOffsetLabel(t *testing.T) {
	t.Parallel()

	assert.Empty(t, OffsetLabel(0))
	assert.Equal(t, "+1 hr", OffsetLabel(time.Hour))
	assert.Equal(t, "-1 hr", OffsetLabel(-time.Hour))
	assert.Equal(t, "+2.5 hrs", OffsetLabel(150*time.Minute))
	assert.Equal(t, "-0.5 hrs", OffsetLabel(-30*time.Minute))
}

func TestCountryFlag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🇩🇪", CountryFlag("DE"))
	assert.Equal(t, "🇯🇵", CountryFlag("jp"))
	assert.Equal(t, "🇺🇸", CountryFlag(" us "))
	assert.Empty(t, CountryFlag(""))
	assert.Empty(t, CountryFlag("USA"))
	assert.Empty(t, CountryFlag("1A"))
	assert.Empty(t, CountryFlag("é"))
}
