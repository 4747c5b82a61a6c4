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
	_ "embed"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/timezones"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// zones.tab lists "<country code>\t<zone>" for every zone with a country.
//
//go:embed zones.tab
var zoneTab string

type Kind string

const (
	KindCity         Kind = "city"
	KindAbbreviation Kind = "abbreviation"
	KindOffset       Kind = "utc-offset"
	KindZone         Kind = "zone"
)

const (
	offsetSubtitle = "Coordinated Universal Time Offset"

	// MinSimilarity is the Jaro-Winkler score a zone title needs to count as
	// a fuzzy match.
	MinSimilarity float32 = 0.85
)

// Result is one search hit. Identifier is empty for geocoder results that
// carried no time zone.
type Result struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Identifier  string  `json:"identifier,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Country     string  `json:"country,omitempty"`
	Kind        Kind    `json:"kind"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

// Entry builds an entry of the given type from the result. The city is the
// result title and the flag is derived from the country code.
func (r *Result) Entry(t database.EntryType, name string) database.Entry {
	return database.Entry{
		Type:               t,
		Name:               name,
		City:               r.Title,
		Country:            r.Country,
		TimezoneIdentifier: r.Identifier,
		Flag:               timezones.CountryFlag(r.CountryCode),
	}
}

type abbreviation struct {
	name     string
	fullName string
	zone     string
}

var abbreviations = []abbreviation{
	{"AEDT", "Australian Eastern Daylight Time", "Australia/Sydney"},
	{"AEST", "Australian Eastern Standard Time", "Australia/Sydney"},
	{"AKDT", "Alaska Daylight Time", "America/Anchorage"},
	{"AKST", "Alaska Standard Time", "America/Anchorage"},
	{"BST", "British Summer Time", "Europe/London"},
	{"CDT", "Central Daylight Time", "America/Chicago"},
	{"CEST", "Central European Summer Time", "Europe/Paris"},
	{"CET", "Central European Time", "Europe/Paris"},
	{"CST", "Central Standard Time", "America/Chicago"},
	{"EDT", "Eastern Daylight Time", "America/New_York"},
	{"EST", "Eastern Standard Time", "America/New_York"},
	{"GMT", "Greenwich Mean Time", "Etc/GMT"},
	{"HST", "Hawaii Standard Time", "Pacific/Honolulu"},
	{"IST", "India Standard Time", "Asia/Kolkata"},
	{"JST", "Japan Standard Time", "Asia/Tokyo"},
	{"MDT", "Mountain Daylight Time", "America/Denver"},
	{"MST", "Mountain Standard Time", "America/Denver"},
	{"PDT", "Pacific Daylight Time", "America/Los_Angeles"},
	{"PST", "Pacific Standard Time", "America/Los_Angeles"},
	{"UTC", "Coordinated Universal Time", "Etc/UTC"},
}

// OffsetZone maps a whole-hour UTC offset to its Etc zone. The Etc names
// use POSIX signs, so UTC+3 is Etc/GMT-3.
func OffsetZone(hours int) string {
	switch {
	case hours == 0:
		return "Etc/GMT"
	case hours > 0:
		return "Etc/GMT-" + strconv.Itoa(hours)
	default:
		return "Etc/GMT+" + strconv.Itoa(-hours)
	}
}

// OffsetTitle formats a whole-hour offset as UTC+n or UTC-n.
func OffsetTitle(hours int) string {
	if hours >= 0 {
		return "UTC+" + strconv.Itoa(hours)
	}
	return "UTC" + strconv.Itoa(hours)
}

func offsetResults() []Result {
	results := make([]Result, 0, 28)
	for h := -12; h <= 14; h++ {
		results = append(results, Result{
			Title:      OffsetTitle(h),
			Subtitle:   offsetSubtitle,
			Identifier: OffsetZone(h),
			Kind:       KindOffset,
		})
	}
	// Etc has no half hour zones.
	results = append(results, Result{
		Title:       "UTC+5:30",
		Subtitle:    offsetSubtitle,
		Identifier:  "Asia/Kolkata",
		CountryCode: "IN",
		Kind:        KindOffset,
	})
	return results
}

// Catalogue is the offline set of zones, abbreviations and UTC offsets.
// It is read-only after NewCatalogue and safe for concurrent use.
type Catalogue struct {
	zoneCountry map[string]string
	zones       []Result
	aliases     []Result
	folded      []string
}

func NewCatalogue() *Catalogue {
	return newCatalogue(zoneTab)
}

// newCatalogue parses a country<TAB>zone table. Zones the embedded zone
// database can't load are skipped.
func newCatalogue(tab string) *Catalogue {
	c := &Catalogue{
		zoneCountry: make(map[string]string),
	}

	for _, line := range strings.Split(tab, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cc, zone, ok := strings.Cut(line, "\t")
		if !ok || !strings.Contains(zone, "/") {
			continue
		}
		if !timezones.IsValid(zone) {
			log.Warn().Str("zone", zone).Msg("skipping unknown catalogue zone")
			continue
		}
		c.zoneCountry[zone] = cc
		c.zones = append(c.zones, zoneResult(zone, cc))
	}

	for _, a := range abbreviations {
		c.aliases = append(c.aliases, Result{
			Title:       a.name,
			Subtitle:    a.fullName,
			Identifier:  a.zone,
			CountryCode: c.zoneCountry[a.zone],
			Kind:        KindAbbreviation,
		})
	}
	c.aliases = append(c.aliases, offsetResults()...)

	c.folded = make([]string, len(c.zones))
	for i := range c.zones {
		c.folded[i] = Fold(c.zones[i].Title)
	}

	log.Debug().
		Int("zones", len(c.zones)).
		Int("aliases", len(c.aliases)).
		Msg("loaded zone catalogue")

	return c
}

func zoneResult(zone, cc string) Result {
	parts := strings.Split(zone, "/")
	return Result{
		Title:       strings.ReplaceAll(parts[len(parts)-1], "_", " "),
		Subtitle:    parts[0],
		Identifier:  zone,
		CountryCode: cc,
		Country:     CountryName(cc),
		Kind:        KindZone,
	}
}

// CountryFor returns the ISO country code of a catalogue zone.
func (c *Catalogue) CountryFor(zone string) (string, bool) {
	cc, ok := c.zoneCountry[zone]
	return cc, ok
}

// Defaults is what an empty query shows: every zone followed by the whole
// hour UTC offsets.
func (c *Catalogue) Defaults() []Result {
	out := make([]Result, 0, len(c.zones)+27)
	out = append(out, c.zones...)
	for _, r := range c.aliases {
		if r.Kind == KindOffset && r.Identifier != "Asia/Kolkata" {
			out = append(out, r)
		}
	}
	return out
}

// Aliases returns abbreviations and UTC offsets whose title contains the
// query, ignoring case.
func (c *Catalogue) Aliases(query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Result
	for _, r := range c.aliases {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out
}

// Zones returns catalogue zones whose title contains the query, followed by
// fuzzy matches scoring at least MinSimilarity, best first.
func (c *Catalogue) Zones(query string) []Result {
	q := Fold(query)
	if q == "" {
		return nil
	}

	type scored struct {
		result Result
		score  float32
	}
	var matches []scored
	for i, title := range c.folded {
		if strings.Contains(title, q) {
			matches = append(matches, scored{result: c.zones[i], score: 2})
			continue
		}
		sim := edlib.JaroWinklerSimilarity(q, title)
		if sim >= MinSimilarity {
			matches = append(matches, scored{result: c.zones[i], score: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]Result, len(matches))
	for i := range matches {
		out[i] = matches[i].result
	}
	return out
}

// Fold lowercases s, strips diacritics and collapses runs of spaces,
// underscores and hyphens into one space, so "São_Paulo" matches "sao paulo".
func Fold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		s = normalized
	}
	s = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// CountryName is the English name of an ISO 3166-1 alpha-2 code, or "" if
// the code is unknown.
func CountryName(code string) string {
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return ""
	}
	return display.English.Regions().Name(region)
}
