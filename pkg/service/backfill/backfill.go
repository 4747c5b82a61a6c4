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

package backfill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/search"
	"github.com/ZaparooProject/there/pkg/timezones"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Concurrency is how many entries are resolved at once.
const Concurrency = 2

var errNoCountry = errors.New("no country found")

// Store is the part of the entry store backfill reads and writes.
type Store interface {
	GetAllEntries() ([]database.Entry, error)
	UpdateEntry(e *database.Entry) error
}

// NeedsFlag reports whether e is a place without a flag.
func NeedsFlag(e *database.Entry) bool {
	return e.Type == database.EntryTypePlace &&
		e.Flag == "" &&
		(e.City != "" || e.TimezoneIdentifier != "")
}

// Run fills in missing flags on place entries and returns how many entries
// were updated. The country comes from geocoding the city, preferring a
// result in the entry's own zone, and falls back to the zone's country in
// the catalogue. Either lookup may be nil. A failure on one entry is logged
// and the pass carries on; only cancellation stops it early.
func Run(
	ctx context.Context,
	store Store,
	geocoder search.Geocoder,
	catalogue *search.Catalogue,
) (int, error) {
	entries, err := store.GetAllEntries()
	if err != nil {
		return 0, fmt.Errorf("failed to list entries: %w", err)
	}

	var updated atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Concurrency)

	for i := range entries {
		if !NeedsFlag(&entries[i]) {
			continue
		}
		entry := entries[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cc, country, err := resolveCountry(gctx, &entry, geocoder, catalogue)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().Err(err).
					Int64("id", entry.ID).
					Str("city", entry.City).
					Msg("could not resolve flag for entry")
				return nil
			}

			entry.Flag = timezones.CountryFlag(cc)
			if entry.Country == "" {
				entry.Country = country
			}
			if err := store.UpdateEntry(&entry); err != nil {
				log.Error().Err(err).Int64("id", entry.ID).Msg("failed to save backfilled flag")
				return nil
			}

			log.Info().
				Int64("id", entry.ID).
				Str("flag", entry.Flag).
				Msg("backfilled flag")
			updated.Add(1)
			return nil
		})
	}

	// Only cancellation reaches Wait; per entry failures are logged above.
	if err := g.Wait(); err != nil {
		return int(updated.Load()), fmt.Errorf("backfill cancelled: %w", err)
	}
	return int(updated.Load()), nil
}

func resolveCountry(
	ctx context.Context,
	e *database.Entry,
	geocoder search.Geocoder,
	catalogue *search.Catalogue,
) (code, name string, err error) {
	var geoErr error
	if geocoder != nil && e.City != "" {
		results, gerr := geocoder.Geocode(ctx, e.City)
		if gerr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", "", ctxErr
			}
			geoErr = gerr
		} else if r, ok := pickResult(results, e.TimezoneIdentifier); ok {
			return r.CountryCode, r.Country, nil
		}
	}

	if catalogue != nil {
		if cc, ok := catalogue.CountryFor(e.TimezoneIdentifier); ok {
			return cc, search.CountryName(cc), nil
		}
	}

	if geoErr != nil {
		return "", "", fmt.Errorf("%w: %w", errNoCountry, geoErr)
	}
	return "", "", errNoCountry
}

// pickResult prefers the first result in zone and otherwise takes the first
// result that has a country code.
func pickResult(results []search.Result, zone string) (search.Result, bool) {
	var fallback *search.Result
	for i := range results {
		r := &results[i]
		if timezones.CountryFlag(r.CountryCode) == "" {
			continue
		}
		if zone != "" && strings.EqualFold(r.Identifier, zone) {
			return *r, true
		}
		if fallback == nil {
			fallback = r
		}
	}
	if fallback == nil {
		return search.Result{}, false
	}
	return *fallback, true
}
