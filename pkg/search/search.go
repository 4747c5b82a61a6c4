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

package search

import (
	"context"
	"strings"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/rs/zerolog/log"
)

// Searcher answers place queries from the offline catalogue and, when one
// is configured, a geocoder.
type Searcher struct {
	catalogue *Catalogue
	geocoder  Geocoder
}

// NewSearcher returns a searcher over cat. A nil geocoder keeps all
// searches offline.
func NewSearcher(cat *Catalogue, geocoder Geocoder) *Searcher {
	if cat == nil {
		cat = NewCatalogue()
	}
	return &Searcher{catalogue: cat, geocoder: geocoder}
}

// NewSearcherFromConfig wires the Open-Meteo geocoder when it is enabled.
func NewSearcherFromConfig(cfg *config.Instance) *Searcher {
	var geocoder Geocoder
	if cfg.GeocoderEnabled() {
		geocoder = NewOpenMeteoFromConfig(cfg)
	}
	return NewSearcher(NewCatalogue(), geocoder)
}

func (s *Searcher) Catalogue() *Catalogue {
	return s.catalogue
}

func (s *Searcher) Geocoder() Geocoder {
	return s.geocoder
}

// Search resolves query into results:
//   - an empty query lists the catalogue defaults
//   - abbreviation and UTC offset hits are returned without going online
//   - otherwise the geocoder is asked, and catalogue zones are used when it
//     is disabled, fails or finds nothing
//
// Only a cancelled context is returned as an error.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.catalogue.Defaults(), nil
	}

	if aliases := s.catalogue.Aliases(query); len(aliases) > 0 {
		return aliases, nil
	}

	if s.geocoder != nil {
		results, err := s.geocoder.Geocode(ctx, query)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			log.Warn().Err(err).Str("query", query).Msg("geocoder failed, using zone catalogue")
		case len(results) > 0:
			return results, nil
		}
	}

	zones := s.catalogue.Zones(query)
	if zones == nil {
		zones = []Result{}
	}
	return zones, nil
}
