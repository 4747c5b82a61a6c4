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

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/photos"
	"github.com/ZaparooProject/there/pkg/search"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/ZaparooProject/there/pkg/timezones"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errNoSearchResults = errors.New("no search results")

type listFlags struct {
	sort   string
	offset time.Duration
	json   bool
}

func (a *app) newListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries with their current time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(env *Env) error {
				return runList(cmd.OutOrStdout(), env, &flags)
			})
		},
	}

	cmd.Flags().StringVar(&flags.sort, "sort", "", "sort order: time-ascending or time-descending (default from config)")
	cmd.Flags().DurationVar(&flags.offset, "offset", 0, "preview the list at now plus this offset, e.g. 2h or -30m")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print as JSON")

	return cmd
}

func runList(w io.Writer, env *Env, flags *listFlags) error {
	sortName := flags.sort
	if sortName == "" {
		sortName = env.Config.SortOrder()
	}
	order, err := presenter.ParseSortOrder(sortName)
	if err != nil {
		return err
	}

	entries, err := env.Store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	list := presenter.Present(
		entries,
		order,
		env.Clock.Now(),
		flags.offset,
		presenter.Options{Local: env.Local, Clock24: env.Config.Clock24h()},
	)

	if flags.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
		return nil
	}

	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "No entries yet. Add one with: there add --search <city>")
		return nil
	}

	if flags.offset != 0 {
		_, _ = fmt.Fprintf(w, "Preview: %s\n", timezones.OffsetLabel(flags.offset))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPLACE\tTIME\tDELTA\t")
	for i := range list {
		d := &list[i]
		_, _ = fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\t\n",
			d.ID,
			d.Glyph(),
			d.Title,
			placeLabel(&d.Entry),
			d.FormattedLocalTime,
			d.DeltaLabel,
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	return nil
}

// placeLabel is "City, Country" for people and the country alone for
// places, whose title already is the city.
func placeLabel(e *database.Entry) string {
	if e.Type == database.EntryTypePerson && e.City != "" {
		if e.Country != "" {
			return e.City + ", " + e.Country
		}
		return e.City
	}
	return e.Country
}

type entryFlags struct {
	entryType string
	name      string
	city      string
	country   string
	tz        string
	flag      string
	photo     string
	search    string
	noPhoto   bool
}

func (f *entryFlags) register(cmd *cobra.Command, withSearch bool) {
	cmd.Flags().StringVar(&f.entryType, "type", "", "entry type: place or person")
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.city, "city", "", "city label")
	cmd.Flags().StringVar(&f.country, "country", "", "country label")
	cmd.Flags().StringVar(&f.tz, "tz", "", "IANA time zone, e.g. Europe/Berlin")
	cmd.Flags().StringVar(&f.flag, "flag", "", "flag glyph or two letter country code")
	cmd.Flags().StringVar(&f.photo, "photo", "", "photo file or http(s) URL for a person")
	if withSearch {
		cmd.Flags().StringVar(&f.search, "search", "", "fill in the entry from the first search result")
	} else {
		cmd.Flags().BoolVar(&f.noPhoto, "no-photo", false, "remove the stored photo")
	}
}

// apply copies every flag the user set onto e.
func (f *entryFlags) apply(cmd *cobra.Command, e *database.Entry) {
	changed := cmd.Flags().Changed
	if changed("type") {
		e.Type = database.EntryType(strings.ToLower(strings.TrimSpace(f.entryType)))
	}
	if changed("name") {
		e.Name = strings.TrimSpace(f.name)
	}
	if changed("city") {
		e.City = strings.TrimSpace(f.city)
	}
	if changed("country") {
		e.Country = strings.TrimSpace(f.country)
	}
	if changed("tz") {
		e.TimezoneIdentifier = strings.TrimSpace(f.tz)
	}
	if changed("flag") {
		e.Flag = flagGlyph(f.flag)
	}
}

// flagGlyph turns a two letter country code into its flag and passes
// anything else through.
func flagGlyph(s string) string {
	s = strings.TrimSpace(s)
	if glyph := timezones.CountryFlag(s); glyph != "" {
		return glyph
	}
	return s
}

func (a *app) newAddCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a place or person",
		Example: "  there add --search lisbon\n" +
			"  there add --type person --name Kai --city Honolulu --tz Pacific/Honolulu --photo kai.jpg",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(env *Env) error {
				return runAdd(cmd, env, &flags)
			})
		},
	}
	flags.register(cmd, true)

	return cmd
}

func runAdd(cmd *cobra.Command, env *Env, flags *entryFlags) error {
	ctx := cmd.Context()
	entry := database.Entry{Type: database.EntryTypePlace}

	if flags.search != "" {
		results, err := env.Searcher.Search(ctx, flags.search)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			return fmt.Errorf("%w for %q", errNoSearchResults, flags.search)
		}
		entry = results[0].Entry(database.EntryTypePlace, "")
	}

	flags.apply(cmd, &entry)

	if entry.TimezoneIdentifier == "" {
		return errors.New("a time zone is required: use --tz or --search")
	}
	if entry.Name == "" && entry.City == "" {
		entry.City = lastZoneSegment(entry.TimezoneIdentifier)
	}
	if entry.Flag == "" && entry.Type == database.EntryTypePlace {
		if cc, ok := env.Searcher.Catalogue().CountryFor(entry.TimezoneIdentifier); ok {
			entry.Flag = timezones.CountryFlag(cc)
			if entry.Country == "" {
				entry.Country = search.CountryName(cc)
			}
		}
	}

	if flags.photo != "" {
		ref, err := savePhoto(cmd, env.Photos, flags.photo)
		if err != nil {
			return err
		}
		entry.PhotoData = ref
		if !cmd.Flags().Changed("type") {
			entry.Type = database.EntryTypePerson
		}
	}

	if err := env.Store.AddEntry(&entry); err != nil {
		if entry.PhotoData != "" {
			if rmErr := env.Photos.Remove(entry.PhotoData); rmErr != nil {
				log.Warn().Err(rmErr).Msg("failed to clean up photo after add error")
			}
		}
		return fmt.Errorf("failed to add entry: %w", err)
	}

	log.Info().Int64("id", entry.ID).Str("tz", entry.TimezoneIdentifier).Msg("entry added")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s (%s)\n",
		entry.ID, entry.DisplayName(), entry.TimezoneIdentifier)
	return nil
}

// lastZoneSegment gives a readable label for a bare zone such as
// "America/Argentina/Buenos_Aires".
func lastZoneSegment(tz string) string {
	if i := strings.LastIndex(tz, "/"); i >= 0 {
		tz = tz[i+1:]
	}
	return strings.ReplaceAll(tz, "_", " ")
}

func savePhoto(cmd *cobra.Command, store *photos.Store, src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ref, err := store.SaveURL(cmd.Context(), src)
		if err != nil {
			return "", fmt.Errorf("failed to save photo: %w", err)
		}
		return ref, nil
	}
	ref, err := store.SaveFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}
	return ref, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id: %q", s)
	}
	return id, nil
}

func (a *app) newEditCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(env *Env) error {
				return runEdit(cmd, env, id, &flags)
			})
		},
	}
	flags.register(cmd, false)

	return cmd
}

func runEdit(cmd *cobra.Command, env *Env, id int64, flags *entryFlags) error {
	entry, err := env.Store.GetEntry(id)
	if err != nil {
		return fmt.Errorf("failed to get entry %d: %w", id, err)
	}

	oldPhoto := entry.PhotoData
	flags.apply(cmd, &entry)

	switch {
	case flags.photo != "":
		ref, err := savePhoto(cmd, env.Photos, flags.photo)
		if err != nil {
			return err
		}
		entry.PhotoData = ref
	case flags.noPhoto:
		entry.PhotoData = ""
	}

	if err := env.Store.UpdateEntry(&entry); err != nil {
		if entry.PhotoData != oldPhoto && entry.PhotoData != "" {
			if rmErr := env.Photos.Remove(entry.PhotoData); rmErr != nil {
				log.Warn().Err(rmErr).Msg("failed to clean up photo after edit error")
			}
		}
		return fmt.Errorf("failed to update entry %d: %w", id, err)
	}

	if oldPhoto != "" && oldPhoto != entry.PhotoData && photos.IsStored(oldPhoto) {
		if err := env.Photos.Remove(oldPhoto); err != nil {
			log.Warn().Err(err).Str("photo", oldPhoto).Msg("failed to remove replaced photo")
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d: %s (%s)\n",
		entry.ID, entry.DisplayName(), entry.TimezoneIdentifier)
	return nil
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(env *Env) error {
				return runDelete(cmd.OutOrStdout(), env, id)
			})
		},
	}
}

func runDelete(w io.Writer, env *Env, id int64) error {
	entry, err := env.Store.GetEntry(id)
	if err != nil {
		return fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	if err := env.Store.DeleteEntry(id); err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}
	if entry.PhotoData != "" && photos.IsStored(entry.PhotoData) {
		if err := env.Photos.Remove(entry.PhotoData); err != nil {
			log.Warn().Err(err).Str("photo", entry.PhotoData).Msg("failed to remove photo of deleted entry")
		}
	}
	_, _ = fmt.Fprintf(w, "Deleted %d: %s\n", id, entry.DisplayName())
	return nil
}
