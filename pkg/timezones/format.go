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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SameTimeLabel is the delta label for an entry in the local offset.
const SameTimeLabel = "same time"

const (
	layout24 = "15:04"
	layout12 = "3:04 PM"
)

// FormatDelta renders a delta as signed decimal hours with one decimal
// place, e.g. "+3.5" or "-9.0". A zero delta renders as SameTimeLabel.
func FormatDelta(hours, minutes int) string {
	total := hours*60 + minutes
	if total == 0 {
		return SameTimeLabel
	}
	magnitude := math.Abs(float64(hours)) + math.Abs(float64(minutes))/60.0
	if total < 0 {
		magnitude = -magnitude
	}
	return fmt.Sprintf("%+.1f", magnitude)
}

// Label is FormatDelta for a computed difference.
func (d Difference) Label() string {
	return FormatDelta(d.Hours, d.Minutes)
}

// FormatClock formats the wall-clock time at the given instant in the zone
// named by entryTZ. Unresolvable zones are formatted in UTC.
func FormatClock(entryTZ string, at time.Time, clock24 bool) string {
	loc, ok := LoadLocation(entryTZ)
	if !ok {
		loc = time.UTC
	}
	layout := layout12
	if clock24 {
		layout = layout24
	}
	return at.In(loc).Format(layout)
}

// OffsetLabel describes a preview offset, e.g. "+1 hr" or "-2.5 hrs".
// Zero returns an empty string.
func OffsetLabel(d time.Duration) string {
	if d == 0 {
		return ""
	}
	hours := d.Hours()
	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	value := strconv.FormatFloat(math.Abs(hours), 'f', -1, 64)
	unit := "hrs"
	if math.Abs(hours) == 1 {
		unit = "hr"
	}
	return sign + value + " " + unit
}

// regionalIndicatorBase is the offset from 'A' to REGIONAL INDICATOR SYMBOL
// LETTER A.
const regionalIndicatorBase = 0x1F1E6 - 'A'

// CountryFlag converts an ISO 3166-1 alpha-2 code into its flag emoji.
// Anything that isn't exactly two ASCII letters returns an empty string.
func CountryFlag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var sb strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		sb.WriteRune(r + regionalIndicatorBase)
	}
	return sb.String()
}
