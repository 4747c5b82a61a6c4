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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/export"
	"github.com/ZaparooProject/there/pkg/photos"
	"github.com/ZaparooProject/there/pkg/search"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/ZaparooProject/there/pkg/testing/fixtures"
	testhelpers "github.com/ZaparooProject/there/pkg/testing/helpers"
	"github.com/ZaparooProject/there/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	*Env
	fs afero.Fs
}

func newTestEnv(t *testing.T, geocoder search.Geocoder) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.NewConfig(dir, config.BaseDefaults)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	return &testEnv{
		Env: &Env{
			Config:   cfg,
			Store:    testhelpers.NewInMemoryUserDB(t),
			Photos:   photos.NewStore(fs, "/data"),
			Searcher: search.NewSearcher(nil, geocoder),
			Clock:    clockwork.NewFakeClockAt(testNow),
			Local:    time.UTC,
			LogPath:  filepath.Join(dir, "there.log"),
		},
		fs: fs,
	}
}

func execute(t *testing.T, env *testEnv, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd(func(context.Context, *Globals) (*Env, error) {
		return env.Env, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func addedID(t *testing.T, out string) int64 {
	t.Helper()
	fields := strings.Fields(strings.TrimPrefix(out, "Added "))
	require.NotEmpty(t, fields)
	id, err := strconv.ParseInt(strings.TrimSuffix(fields[0], ":"), 10, 64)
	require.NoError(t, err)
	return id
}

func TestVersion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "version")
	require.NoError(t, err)
	assert.Equal(t, "There v"+config.AppVersion+"\n", out)
}

func TestOpenerError(t *testing.T) {
	t.Parallel()

	openErr := errors.New("no database")
	root := NewRootCmd(func(context.Context, *Globals) (*Env, error) {
		return nil, openErr
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list"})
	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, openErr)
}

func TestGlobalsPassedToOpener(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	var got Globals
	root := NewRootCmd(func(_ context.Context, g *Globals) (*Env, error) {
		got = *g
		return env.Env, nil
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", "/tmp/other.toml", "--debug", "list"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, Globals{ConfigPath: "/tmp/other.toml", Debug: true}, got)
}

func TestList_Empty(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries yet")
}

func TestAddAndList(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "add", "--city", "Tokyo", "--tz", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "Tokyo (Asia/Tokyo)")

	id := addedID(t, out)
	entry, err := env.Store.GetEntry(id)
	require.NoError(t, err)
	assert.Equal(t, database.EntryTypePlace, entry.Type)
	assert.Equal(t, "🇯🇵", entry.Flag)
	assert.Equal(t, "Japan", entry.Country)

	out, err = execute(t, env, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "🇯🇵 Tokyo")
	assert.Contains(t, out, "9:00 PM")
	assert.Contains(t, out, "+9.0")
}

func TestList_Offset(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	require.NoError(t, env.Store.AddEntry(fixtures.NewPlaceEntry()))

	out, err := execute(t, env, "list", "--offset", "90m")
	require.NoError(t, err)
	assert.Contains(t, out, "Preview: +1.5 hrs")
	assert.Contains(t, out, "10:30 PM")
	// the delta does not move with the preview
	assert.Contains(t, out, "+9.0")
}

func TestList_JSONSorted(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	require.NoError(t, env.Store.AddEntry(fixtures.NewPlaceEntry()))
	require.NoError(t, env.Store.AddEntry(fixtures.NewPersonEntry()))

	out, err := execute(t, env, "list", "--json", "--sort", "time-descending")
	require.NoError(t, err)

	var list []presenter.DisplayEntry
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Tokyo", list[0].Title)
	assert.Equal(t, 9, list[0].Hours)
	assert.Equal(t, "Priya", list[1].Title)
	assert.Equal(t, 5, list[1].Hours)
	assert.Equal(t, 30, list[1].Minutes)
}

func TestList_BadSort(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	_, err := execute(t, env, "list", "--sort", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort order")
}

func TestAdd_RequiresZone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	_, err := execute(t, env, "add", "--city", "Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time zone is required")
}

func TestAdd_InvalidZone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	_, err := execute(t, env, "add", "--city", "Atlantis", "--tz", "Atlantis/Capital")
	require.ErrorIs(t, err, database.ErrInvalidEntry)
}

func TestAdd_ZoneOnlyUsesZoneName(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "add", "--tz", "America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	entry, err := env.Store.GetEntry(addedID(t, out))
	require.NoError(t, err)
	assert.Equal(t, "Buenos Aires", entry.City)
}

func TestAdd_SearchOffsetAlias(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "add", "--search", "utc+5:30", "--type", "person", "--name", "Priya")
	require.NoError(t, err)

	entry, err := env.Store.GetEntry(addedID(t, out))
	require.NoError(t, err)
	assert.Equal(t, database.EntryTypePerson, entry.Type)
	assert.Equal(t, "Priya", entry.Name)
	assert.Equal(t, "Asia/Kolkata", entry.TimezoneIdentifier)
	assert.Equal(t, "🇮🇳", entry.Flag)
}

func TestAdd_SearchGeocoder(t *testing.T) {
	t.Parallel()

	geo := mocks.NewMockGeocoder()
	geo.On("Geocode", mock.Anything, "lisbon").Return([]search.Result{{
		Title:       "Lisbon",
		Subtitle:    "Lisbon, Portugal",
		Identifier:  "Europe/Lisbon",
		CountryCode: "PT",
		Country:     "Portugal",
		Kind:        search.KindCity,
	}}, nil)
	env := newTestEnv(t, geo)

	out, err := execute(t, env, "add", "--search", "lisbon")
	require.NoError(t, err)

	entry, err := env.Store.GetEntry(addedID(t, out))
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", entry.City)
	assert.Equal(t, "Portugal", entry.Country)
	assert.Equal(t, "🇵🇹", entry.Flag)
	geo.AssertExpectations(t)
}

func writePNG(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, afero.WriteFile(fs, path, buf.Bytes(), 0o600))
}

func TestAdd_PhotoMakesPerson(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	writePNG(t, env.fs, "/in/kai.png")

	out, err := execute(t, env, "add", "--name", "Kai", "--tz", "Pacific/Honolulu", "--photo", "/in/kai.png")
	require.NoError(t, err)

	id := addedID(t, out)
	entry, err := env.Store.GetEntry(id)
	require.NoError(t, err)
	assert.Equal(t, database.EntryTypePerson, entry.Type)
	assert.Empty(t, entry.Flag)
	require.True(t, photos.IsStored(entry.PhotoData))

	exists, err := afero.Exists(env.fs, filepath.Join("/data", entry.PhotoData))
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = execute(t, env, "delete", strconv.FormatInt(id, 10))
	require.NoError(t, err)
	exists, err = afero.Exists(env.fs, filepath.Join("/data", entry.PhotoData))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEdit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	e := fixtures.NewPersonEntry()
	require.NoError(t, env.Store.AddEntry(e))

	out, err := execute(t, env, "edit", strconv.FormatInt(e.ID, 10), "--name", "Priya S", "--flag", "in")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")

	got, err := env.Store.GetEntry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya S", got.Name)
	assert.Equal(t, "🇮🇳", got.Flag)
	// untouched fields keep their values
	assert.Equal(t, "Bengaluru", got.City)
	assert.Equal(t, "Asia/Kolkata", got.TimezoneIdentifier)
}

func TestEdit_ReplacesPhoto(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	writePNG(t, env.fs, "/in/a.png")
	writePNG(t, env.fs, "/in/b.png")

	out, err := execute(t, env, "add", "--name", "Kai", "--tz", "Pacific/Honolulu", "--photo", "/in/a.png")
	require.NoError(t, err)
	id := addedID(t, out)
	before, err := env.Store.GetEntry(id)
	require.NoError(t, err)

	_, err = execute(t, env, "edit", strconv.FormatInt(id, 10), "--photo", "/in/b.png")
	require.NoError(t, err)
	after, err := env.Store.GetEntry(id)
	require.NoError(t, err)
	assert.NotEqual(t, before.PhotoData, after.PhotoData)

	exists, err := afero.Exists(env.fs, filepath.Join("/data", before.PhotoData))
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = execute(t, env, "edit", strconv.FormatInt(id, 10), "--no-photo")
	require.NoError(t, err)
	cleared, err := env.Store.GetEntry(id)
	require.NoError(t, err)
	assert.Empty(t, cleared.PhotoData)
}

func TestEditDelete_BadID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	_, err := execute(t, env, "edit", "abc", "--name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry id")

	_, err = execute(t, env, "delete", "0")
	require.Error(t, err)
}

func TestDelete_Missing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	_, err := execute(t, env, "delete", "12345")
	require.ErrorIs(t, err, database.ErrEntryNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	e := fixtures.NewPlaceEntry()
	require.NoError(t, env.Store.AddEntry(e))

	out, err := execute(t, env, "delete", strconv.FormatInt(e.ID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = env.Store.GetEntry(e.ID)
	require.ErrorIs(t, err, database.ErrEntryNotFound)
}

func TestSearch_Local(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "search", "UTC+5:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Asia/Kolkata")
	assert.Contains(t, out, "🇮🇳")
}

func TestSearch_Limit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	out, err := execute(t, env, "search", "--limit", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header plus three rows
	assert.Len(t, lines, 4)
}

func TestBackfill(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	e := fixtures.NewUnflaggedEntry()
	require.NoError(t, env.Store.AddEntry(e))

	out, err := execute(t, env, "backfill")
	require.NoError(t, err)
	assert.Equal(t, "Updated 1 entry.\n", out)

	got, err := env.Store.GetEntry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "🇵🇹", got.Flag)
}

func TestExport_CSVStdout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	require.NoError(t, env.Store.AddEntry(fixtures.NewPlaceEntry()))

	out, err := execute(t, env, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "type,name,city,country,timezone,flag,photo,id"))
	assert.Contains(t, out, "Asia/Tokyo")
}

func TestExportImport_JSONFile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	require.NoError(t, env.Store.AddEntry(fixtures.NewPlaceEntry()))
	require.NoError(t, env.Store.AddEntry(fixtures.NewPersonEntry()))

	path := filepath.Join(t.TempDir(), "entries.json")
	_, err := execute(t, env, "export", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	out, err := execute(t, env, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 2 entries.")

	all, err := env.Store.GetAllEntries()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestImport_SkipsInvalidRows(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, []database.Entry{
		*fixtures.NewPlaceEntry(),
		{Type: "robot", City: "Nowhere"},
	}, export.FormatCSV))
	path := filepath.Join(t.TempDir(), "entries.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := execute(t, env, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped row 2")
	assert.Contains(t, out, "Imported 1 of 2 entries.")
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		path    string
		want    export.Format
		wantErr bool
	}{
		{name: "explicit", format: "json", path: "a.csv", want: export.FormatJSON},
		{name: "extension", path: "out.JSON", want: export.FormatJSON},
		{name: "default", path: "", want: export.FormatCSV},
		{name: "unknown extension", path: "out.txt", want: export.FormatCSV},
		{name: "bad", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := formatFor(tt.format, tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, export.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Japan", placeLabel(fixtures.NewPlaceEntry()))
	assert.Equal(t, "Bengaluru, India", placeLabel(fixtures.NewPersonEntry()))
	assert.Equal(t, "Honolulu", placeLabel(&database.Entry{Type: database.EntryTypePerson, City: "Honolulu"}))
}

func TestSaveSortOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	saveSortOrder(env.Config)(presenter.TimeDescending)
	assert.Equal(t, config.SortTimeDescending, env.Config.SortOrder())

	require.NoError(t, env.Config.Load())
	assert.Equal(t, config.SortTimeDescending, env.Config.SortOrder())
}
