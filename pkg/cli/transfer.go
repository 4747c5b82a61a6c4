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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/there/pkg/export"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all entries as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := formatFor(format, output)
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(env *Env) error {
				entries, err := env.Store.GetAllEntries()
				if err != nil {
					return fmt.Errorf("failed to list entries: %w", err)
				}
				if output == "" {
					return export.Write(cmd.OutOrStdout(), entries, f)
				}
				return writeFile(output, func(w io.Writer) error {
					return export.Write(w, entries, f)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "csv or json (default from the output extension, else csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// formatFor picks the explicit format, else one matching the file
// extension, else CSV.
func formatFor(format, path string) (export.Format, error) {
	if format == "" {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
		return export.FormatCSV, nil
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", fmt.Errorf("invalid --format: %w", err)
	}
	return f, nil
}

func writeFile(path string, fn func(w io.Writer) error) (err error) {
	//nolint:gosec // user chosen output path
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()
	return fn(f)
}

func (a *app) newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add entries from a CSV or JSON export",
		Long: "Adds every entry in FILE as a new entry. Entries are given new IDs;\n" +
			"invalid rows are reported and skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatFor(format, args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(env *Env) error {
				return runImport(cmd, env, args[0], f)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "csv or json (default from the file extension, else csv)")

	return cmd
}

func runImport(cmd *cobra.Command, env *Env, path string, format export.Format) error {
	//nolint:gosec // user chosen input path
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close import file")
		}
	}()

	entries, err := export.Read(f, format)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	added := 0
	var errs []error
	for i := range entries {
		e := entries[i]
		e.ID = 0
		// photos are local files and do not travel with an export
		e.PhotoData = ""
		if err := env.Store.AddEntry(&e); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		added++
	}

	for _, err := range errs {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s\n", err)
	}
	_, _ = fmt.Fprintf(w, "Imported %d of %d %s.\n", added, len(entries), plural(len(entries), "entry", "entries"))

	if added == 0 && len(errs) > 0 {
		return fmt.Errorf("nothing imported: %w", errors.Join(errs...))
	}
	return nil
}
