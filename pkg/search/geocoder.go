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
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var ErrGeocoderStatus = errors.New("geocoder request failed")

const (
	// RequestsPerSecond keeps well under the free geocoding API quota.
	RequestsPerSecond = 2
	BurstSize         = 4
)

// Geocoder turns a free-text place query into city results.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]Result, error)
}

type openMeteoResponse struct {
	Results []openMeteoPlace `json:"results"`
}

type openMeteoPlace struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
	Timezone    string  `json:"timezone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// OpenMeteo queries the Open-Meteo geocoding API. Requests are rate limited
// and identical queries in flight at the same time share one request.
type OpenMeteo struct {
	client   *httpclient.Client
	limiter  *rate.Limiter
	group    singleflight.Group
	baseURL  string
	language string
	count    int
}

func NewOpenMeteo(client *httpclient.Client, baseURL, language string, count int) *OpenMeteo {
	if client == nil {
		client = httpclient.DefaultClient
	}
	if baseURL == "" {
		baseURL = config.DefaultGeocoderURL
	}
	if count <= 0 {
		count = config.DefaultResults
	}
	return &OpenMeteo{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(RequestsPerSecond), BurstSize),
		baseURL:  baseURL,
		language: language,
		count:    count,
	}
}

// NewOpenMeteoFromConfig builds a geocoder from the [search] settings.
func NewOpenMeteoFromConfig(cfg *config.Instance) *OpenMeteo {
	return NewOpenMeteo(
		httpclient.NewClientWithTimeout(config.ApiRequestTimeout),
		cfg.GeocoderURL(),
		cfg.SearchLanguage(),
		cfg.SearchResults(),
	)
}

// Geocode returns the results for query. Callers asking for the same query
// at the same time share one request; the request itself is detached from
// any single caller's context so one caller giving up does not fail the
// others.
func (g *OpenMeteo) Geocode(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("geocoder request cancelled: %w", err)
	}

	ch := g.group.DoChan(query, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ApiRequestTimeout)
		defer cancel()
		return g.fetch(fctx, query)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("geocoder request cancelled: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Str("query", query).Msg("shared in-flight geocoder request")
		}
		results, ok := res.Val.([]Result)
		if !ok {
			return nil, fmt.Errorf("unexpected geocoder result type %T", res.Val)
		}
		return slices.Clone(results), nil
	}
}

func (g *OpenMeteo) requestURL(query string) (string, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid geocoder url: %w", err)
	}
	params := u.Query()
	params.Set("name", query)
	params.Set("count", strconv.Itoa(g.count))
	params.Set("format", "json")
	if g.language != "" {
		params.Set("language", g.language)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (g *OpenMeteo) fetch(ctx context.Context, query string) ([]Result, error) {
	reqURL, err := g.requestURL(query)
	if err != nil {
		return nil, err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder rate limit wait: %w", err)
	}

	log.Debug().Str("url", reqURL).Msg("geocoding")

	var resp openMeteoResponse
	if err := g.client.GetJSON(ctx, reqURL, &resp); err != nil {
		if errors.Is(err, httpclient.ErrStatus) {
			return nil, fmt.Errorf("%w: %w", ErrGeocoderStatus, err)
		}
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}

	results := make([]Result, 0, len(resp.Results))
	for _, p := range resp.Results {
		// A place without a zone can't become an entry.
		if p.Timezone == "" {
			continue
		}
		subtitle := p.Country
		if p.Admin1 != "" && p.Admin1 != p.Name {
			subtitle = strings.TrimSuffix(p.Admin1+", "+p.Country, ", ")
		}
		results = append(results, Result{
			Title:       p.Name,
			Subtitle:    subtitle,
			Identifier:  p.Timezone,
			CountryCode: strings.ToUpper(p.CountryCode),
			Country:     p.Country,
			Kind:        KindCity,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
		})
	}
	return results, nil
}
