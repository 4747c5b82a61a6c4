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

// Package timezones holds the pure time calculations behind every entry
// row: offsets between zones, day periods and the strings derived from them.
package timezones

import (
	"strings"
	"sync"
	"time"
	// Embedded zone database so lookups don't depend on the host's zoneinfo.
	_ "time/tzdata"
)

// DayPeriod is a coarse bucket of the wall-clock hour, used for iconography.
type DayPeriod string

const (
	EarlyMorning   DayPeriod = "early-morning"
	LateMorning    DayPeriod = "late-morning"
	EarlyAfternoon DayPeriod = "early-afternoon"
	LateAfternoon  DayPeriod = "late-afternoon"
	EarlyEvening   DayPeriod = "early-evening"
	Evening        DayPeriod = "evening"
	Night          DayPeriod = "night"
)

// PeriodForHour maps a wall-clock hour (0-23) to its day period. Hours
// outside the daytime buckets, including out of range values, are night.
func PeriodForHour(hour int) DayPeriod {
	switch {
	case hour >= 5 && hour < 8:
		return EarlyMorning
	case hour >= 8 && hour < 12:
		return LateMorning
	case hour >= 12 && hour < 15:
		return EarlyAfternoon
	case hour >= 15 && hour < 17:
		return LateAfternoon
	case hour >= 17 && hour < 19:
		return EarlyEvening
	case hour >= 19 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// Difference is the signed offset of an entry's zone from the local zone
// at a given instant. Hours and Minutes always share a sign.
type Difference struct {
	Period  DayPeriod `json:"dayPeriod"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
}

// Fallback is returned for identifiers that don't resolve to a zone.
var Fallback = Difference{Hours: 0, Minutes: 0, Period: Night}

var locationCache sync.Map

// LoadLocation resolves an IANA identifier, caching both hits and misses.
// Empty and "Local" never resolve: time.LoadLocation would return UTC or
// the host zone for them, neither of which names a place.
func LoadLocation(id string) (*time.Location, bool) {
	if id == "" || strings.EqualFold(id, "Local") {
		return nil, false
	}
	if cached, ok := locationCache.Load(id); ok {
		loc, _ := cached.(*time.Location)
		return loc, loc != nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		locationCache.Store(id, (*time.Location)(nil))
		return nil, false
	}
	locationCache.Store(id, loc)
	return loc, true
}

// IsValid reports whether id resolves to a known zone.
func IsValid(id string) bool {
	_, ok := LoadLocation(id)
	return ok
}

// ComputeDifference returns the offset of the zone named by entryTZ relative
// to local, evaluated at now so DST transitions are honoured, along with the
// day period of the wall-clock hour in entryTZ. A nil local is treated as
// UTC. Unresolvable identifiers return Fallback.
func ComputeDifference(entryTZ string, now time.Time, local *time.Location) Difference {
	loc, ok := LoadLocation(entryTZ)
	if !ok {
		return Fallback
	}
	if local == nil {
		local = time.UTC
	}

	_, entryOffset := now.In(loc).Zone()
	_, localOffset := now.In(local).Zone()
	diff := entryOffset - localOffset

	return Difference{
		Hours:   diff / 3600,
		Minutes: (diff % 3600) / 60,
		Period:  PeriodForHour(now.In(loc).Hour()),
	}
}

// Same reports whether the difference is zero.
func (d Difference) Same() bool {
	return d.Hours == 0 && d.Minutes == 0
}

// Fractional returns the difference in decimal hours.
func (d Difference) Fractional() float64 {
	return float64(d.Hours) + float64(d.Minutes)/60.0
}
