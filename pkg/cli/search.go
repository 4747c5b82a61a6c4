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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ZaparooProject/there/pkg/search"
	"github.com/ZaparooProject/there/pkg/service/backfill"
	"github.com/ZaparooProject/there/pkg/timezones"
	"github.com/spf13/cobra"
)

func (a *app) newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search cities, zone abbreviations and UTC offsets",
		Long: "Searches for a place to add. Abbreviations such as EST and offsets\n" +
			"such as UTC+5 are answered locally; anything else is geocoded online\n" +
			"when enabled, falling back to the built in zone list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.withEnv(cmd, func(env *Env) error {
				results, err := env.Searcher.Search(cmd.Context(), query)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				return printResults(cmd.OutOrStdout(), results, limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results to print, 0 for all")

	return cmd
}

func printResults(w io.Writer, results []search.Result, limit int) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "No results.")
		return nil
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tDETAIL\tZONE\tKIND\t")
	for i := range results {
		r := &results[i]
		name := r.Title
		if flag := timezones.CountryFlag(r.CountryCode); flag != "" {
			name = flag + " " + name
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", name, r.Subtitle, r.Identifier, r.Kind)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func (a *app) newBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Fill in missing country flags for places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(env *Env) error {
				n, err := backfill.Run(
					cmd.Context(),
					env.Store,
					env.Searcher.Geocoder(),
					env.Searcher.Catalogue(),
				)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d %s.\n", n, plural(n, "entry", "entries"))
				return nil
			})
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
