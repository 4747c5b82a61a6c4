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
	"strings"

	"github.com/ZaparooProject/there/pkg/timezones"
)

const (
	PersonGlyph  = "👤"
	DefaultGlyph = "🕒"
)

var periodGlyphs = map[timezones.DayPeriod]string{
	timezones.EarlyMorning:   "🌅",
	timezones.LateMorning:    "🌤",
	timezones.EarlyAfternoon: "☀️",
	timezones.LateAfternoon:  "⛅",
	timezones.EarlyEvening:   "🌇",
	timezones.Evening:        "🌆",
	timezones.Night:          "🌙",
}

// PeriodGlyph returns the icon for a day period; unknown periods get the
// night icon.
func PeriodGlyph(p timezones.DayPeriod) string {
	if g, ok := periodGlyphs[p]; ok {
		return g
	}
	return periodGlyphs[timezones.Night]
}

// Glyph is the leading icon for a row: a person marker when the entry has a
// photo, then its flag, then a clock.
func (d *DisplayEntry) Glyph() string {
	switch {
	case d.PhotoData != "":
		return PersonGlyph
	case d.Flag != "":
		return d.Flag
	default:
		return DefaultGlyph
	}
}

// Line is the single-line form of a row used by the menu bar and the
// clipboard, e.g. "🇯🇵 Tokyo  9:41 PM  +7.0".
func (d *DisplayEntry) Line() string {
	parts := []string{d.Glyph() + " " + d.Title, d.FormattedLocalTime, d.DeltaLabel}
	return strings.Join(parts, "  ")
}
