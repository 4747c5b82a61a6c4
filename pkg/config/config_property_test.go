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

package config

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPropertySearchResultsInRange verifies the result limit is always usable.
func TestPropertySearchResultsInRange(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int().Draw(t, "results")

		cfg := &Instance{}
		cfg.vals.Search.Results = n

		got := cfg.SearchResults()
		if got < 1 || got > maxResults {
			t.Fatalf("SearchResults() = %d for configured %d", got, n)
		}
	})
}

// TestPropertySortOrderIsKnown verifies any stored string maps to a known order.
func TestPropertySortOrderIsKnown(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "order")

		cfg := &Instance{}
		cfg.vals.Display.SortOrder = s

		got := cfg.SortOrder()
		if got != SortTimeAscending && got != SortTimeDescending {
			t.Fatalf("SortOrder() = %q for configured %q", got, s)
		}
	})
}

// TestPropertyIdleTimeoutPositive verifies the idle timeout is never zero or negative.
func TestPropertyIdleTimeoutPositive(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`-?[0-9]{0,4}(ms|s|m|h|x)?`).Draw(t, "timeout")

		cfg := &Instance{}
		cfg.vals.TUI.IdleTimeout = s

		if d := cfg.IdleTimeout(); d <= 0 {
			t.Fatalf("IdleTimeout() = %v for configured %q", d, s)
		}
	})
}
