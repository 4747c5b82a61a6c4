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

package fixtures

import "github.com/ZaparooProject/there/pkg/database"

// Common entry fixtures for use in tests. IDs are fixed so tests can refer
// to them; clear the ID before AddEntry to have the store assign one.

func NewPlaceEntry() *database.Entry {
	return &database.Entry{
		ID:                 1001,
		Type:               database.EntryTypePlace,
		City:               "Tokyo",
		Country:            "Japan",
		TimezoneIdentifier: "Asia/Tokyo",
		Flag:               "🇯🇵",
	}
}

func NewPersonEntry() *database.Entry {
	return &database.Entry{
		ID:                 1002,
		Type:               database.EntryTypePerson,
		Name:               "Priya",
		City:               "Bengaluru",
		Country:            "India",
		TimezoneIdentifier: "Asia/Kolkata",
	}
}

// NewUnflaggedEntry is a place with no flag, as left by older versions.
func NewUnflaggedEntry() *database.Entry {
	return &database.Entry{
		ID:                 1003,
		Type:               database.EntryTypePlace,
		City:               "Lisbon",
		TimezoneIdentifier: "Europe/Lisbon",
	}
}

// NewBrokenZoneEntry has an identifier that no longer resolves. Such rows
// can only come from older data since validation rejects them.
func NewBrokenZoneEntry() *database.Entry {
	return &database.Entry{
		ID:                 1004,
		Type:               database.EntryTypePlace,
		City:               "Atlantis",
		TimezoneIdentifier: "Not/AZone",
	}
}

// SampleEntries returns a mixed list of valid entries.
func SampleEntries() []database.Entry {
	return []database.Entry{
		*NewPlaceEntry(),
		*NewPersonEntry(),
		*NewUnflaggedEntry(),
		{
			ID:                 1005,
			Type:               database.EntryTypePlace,
			City:               "New York",
			Country:            "United States",
			TimezoneIdentifier: "America/New_York",
			Flag:               "🇺🇸",
		},
	}
}
