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

// Package presenter turns stored entries into the sorted, display-ready rows
// every host renders.
package presenter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/timezones"
)

type SortOrder string

const (
	TimeAscending  SortOrder = "time-ascending"
	TimeDescending SortOrder = "time-descending"
)

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == TimeDescending {
		return TimeAscending
	}
	return TimeDescending
}

// ParseSortOrder accepts the config names and their short forms. Unknown
// values return TimeAscending along with an error.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", string(TimeAscending):
		return TimeAscending, nil
	case "desc", "descending", string(TimeDescending):
		return TimeDescending, nil
	default:
		return TimeAscending, fmt.Errorf("unknown sort order: %q", s)
	}
}

type Options struct {
	// Local is the device zone deltas are measured against. Nil means UTC.
	Local   *time.Location
	Clock24 bool
}

// DisplayEntry is an entry with everything a host needs to draw one row.
type DisplayEntry struct {
	// Title is the entry name, or its city when the name is empty.
	Title              string              `json:"title"`
	FormattedLocalTime string              `json:"formattedLocalTime"`
	DeltaLabel         string              `json:"deltaLabel"`
	DayPeriod          timezones.DayPeriod `json:"dayPeriod"`
	database.Entry
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Present evaluates every entry at now+offset and sorts the result by the
// raw hour delta. The sort is stable, so entries with equal hours keep their
// input order in both directions.
//
//nolint:gocritic // options passed by value
func Present(
	entries []database.Entry,
	order SortOrder,
	now time.Time,
	offset time.Duration,
	opts Options,
) []DisplayEntry {
	at := now.Add(offset)
	out := make([]DisplayEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		diff := timezones.ComputeDifference(e.TimezoneIdentifier, at, opts.Local)
		out = append(out, DisplayEntry{
			Entry:              *e,
			Title:              e.DisplayName(),
			FormattedLocalTime: timezones.FormatClock(e.TimezoneIdentifier, at, opts.Clock24),
			Hours:              diff.Hours,
			Minutes:            diff.Minutes,
			DeltaLabel:         diff.Label(),
			DayPeriod:          diff.Period,
		})
	}

	desc := order == TimeDescending
	slices.SortStableFunc(out, func(a, b DisplayEntry) int {
		if desc {
			return cmp.Compare(b.Hours, a.Hours)
		}
		return cmp.Compare(a.Hours, b.Hours)
	})
	return out
}
