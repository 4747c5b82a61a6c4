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

package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/gocarina/gocsv"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write encodes entries to w. CSV output always has a header row, and JSON
// output is an indented array, "[]" when there are no entries.
func Write(w io.Writer, entries []database.Entry, format Format) error {
	if entries == nil {
		entries = []database.Entry{}
	}

	switch format {
	case FormatCSV:
		if len(entries) == 0 {
			// Header row only.
			header, err := gocsv.MarshalString(&[]database.Entry{{}})
			if err != nil {
				return fmt.Errorf("failed to write csv header: %w", err)
			}
			first, _, _ := strings.Cut(header, "\n")
			if _, err := io.WriteString(w, first+"\n"); err != nil {
				return fmt.Errorf("failed to write csv header: %w", err)
			}
			return nil
		}
		if err := gocsv.Marshal(&entries, w); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// Read decodes entries previously written by Write.
func Read(r io.Reader, format Format) ([]database.Entry, error) {
	var entries []database.Entry

	switch format {
	case FormatCSV:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return []database.Entry{}, nil
		}
		if err := gocsv.Unmarshal(bytes.NewReader(data), &entries); err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if entries == nil {
		entries = []database.Entry{}
	}
	return entries, nil
}
