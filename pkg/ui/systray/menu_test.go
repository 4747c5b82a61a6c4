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

package systray

import (
	"runtime"
	"testing"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/stretchr/testify/assert"
)

type fakeItem struct {
	title   string
	tooltip string
	visible bool
}

func (f *fakeItem) SetTitle(title string)     { f.title = title }
func (f *fakeItem) SetTooltip(tooltip string) { f.tooltip = tooltip }
func (f *fakeItem) Show()                     { f.visible = true }
func (f *fakeItem) Hide()                     { f.visible = false }

func newFakePool(n int) ([]*fakeItem, []menuItem) {
	fakes := make([]*fakeItem, n)
	items := make([]menuItem, n)
	for i := range fakes {
		fakes[i] = &fakeItem{}
		items[i] = fakes[i]
	}
	return fakes, items
}

func row(title, tz string) presenter.DisplayEntry {
	return presenter.DisplayEntry{
		Entry:              database.Entry{TimezoneIdentifier: tz, Flag: "🇯🇵"},
		Title:              title,
		FormattedLocalTime: "9:00 PM",
		DeltaLabel:         "+9.0",
	}
}

func TestEntryMenu_Update(t *testing.T) {
	t.Parallel()

	fakes, items := newFakePool(3)
	empty := &fakeItem{}
	m := newEntryMenu(items, empty)

	m.update([]presenter.DisplayEntry{row("Tokyo", "Asia/Tokyo"), row("Osaka", "Asia/Tokyo")})

	assert.True(t, fakes[0].visible)
	assert.Equal(t, "🇯🇵 Tokyo  9:00 PM  +9.0", fakes[0].title)
	assert.Equal(t, "Asia/Tokyo", fakes[0].tooltip)
	assert.True(t, fakes[1].visible)
	assert.False(t, fakes[2].visible)
	assert.False(t, empty.visible)

	line, ok := m.line(1)
	assert.True(t, ok)
	assert.Contains(t, line, "Osaka")
	_, ok = m.line(2)
	assert.False(t, ok)
}

func TestEntryMenu_Shrinks(t *testing.T) {
	t.Parallel()

	fakes, items := newFakePool(2)
	empty := &fakeItem{}
	m := newEntryMenu(items, empty)

	m.update([]presenter.DisplayEntry{row("Tokyo", "Asia/Tokyo"), row("Osaka", "Asia/Tokyo")})
	m.update(nil)

	assert.False(t, fakes[0].visible)
	assert.False(t, fakes[1].visible)
	assert.True(t, empty.visible)
	_, ok := m.line(0)
	assert.False(t, ok)
}

func TestEntryMenu_Overflow(t *testing.T) {
	t.Parallel()

	fakes, items := newFakePool(1)
	m := newEntryMenu(items, nil)

	m.update([]presenter.DisplayEntry{row("Tokyo", "Asia/Tokyo"), row("Osaka", "Asia/Tokyo")})
	assert.True(t, fakes[0].visible)
	assert.Contains(t, fakes[0].title, "Tokyo")
	_, ok := m.line(1)
	assert.False(t, ok)
}

func TestOpenCommand(t *testing.T) {
	t.Parallel()

	want := map[string]string{"darwin": "open", "windows": "explorer"}[runtime.GOOS]
	if want == "" {
		want = "xdg-open"
	}
	assert.Equal(t, want, openCommand())
}
