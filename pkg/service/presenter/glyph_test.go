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

package presenter

import (
	"testing"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/timezones"
	"github.com/stretchr/testify/assert"
)

func TestPeriodGlyph(t *testing.T) {
	t.Parallel()

	periods := []timezones.DayPeriod{
		timezones.EarlyMorning,
		timezones.LateMorning,
		timezones.EarlyAfternoon,
		timezones.LateAfternoon,
		timezones.EarlyEvening,
		timezones.Evening,
		timezones.Night,
	}
	seen := make(map[string]bool)
	for _, p := range periods {
		g := PeriodGlyph(p)
		assert.NotEmpty(t, g)
		seen[g] = true
	}
	assert.Len(t, seen, len(periods))
	assert.Equal(t, PeriodGlyph(timezones.Night), PeriodGlyph("dusk"))
}

func TestDisplayEntryGlyph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  string
		entry database.Entry
	}{
		{name: "photo wins", entry: database.Entry{Flag: "🇯🇵", PhotoData: "photos/a.png"}, want: PersonGlyph},
		{name: "flag", entry: database.Entry{Flag: "🇯🇵"}, want: "🇯🇵"},
		{name: "nothing", entry: database.Entry{}, want: DefaultGlyph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := DisplayEntry{Entry: tt.entry}
			assert.Equal(t, tt.want, d.Glyph())
		})
	}
}

func TestDisplayEntryLine(t *testing.T) {
	t.Parallel()

	d := DisplayEntry{
		Entry:              database.Entry{Flag: "🇯🇵"},
		Title:              "Tokyo",
		FormattedLocalTime: "9:41 PM",
		DeltaLabel:         "+7.0",
	}
	assert.Equal(t, "🇯🇵 Tokyo  9:41 PM  +7.0", d.Line())
}
