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
	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/rs/zerolog/log"
)

// MaxItems is the size of the menu item pool. Menu items can't be removed
// once added, so a fixed pool is shown and hidden instead.
const MaxItems = 24

type menuItem interface {
	SetTitle(title string)
	SetTooltip(tooltip string)
	Show()
	Hide()
}

// entryMenu keeps the item pool in step with the latest list and remembers
// each visible line for the clipboard.
type entryMenu struct {
	empty menuItem
	items []menuItem
	lines []string
	mu    syncutil.Mutex
}

func newEntryMenu(items []menuItem, empty menuItem) *entryMenu {
	return &entryMenu{items: items, empty: empty}
}

func (m *entryMenu) update(list []presenter.DisplayEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(list) > len(m.items) {
		log.Debug().
			Int("entries", len(list)).
			Int("shown", len(m.items)).
			Msg("more entries than menu items")
	}

	m.lines = m.lines[:0]
	for i, item := range m.items {
		if i >= len(list) {
			item.Hide()
			continue
		}
		d := &list[i]
		line := d.Line()
		item.SetTitle(line)
		item.SetTooltip(d.TimezoneIdentifier)
		item.Show()
		m.lines = append(m.lines, line)
	}

	if m.empty != nil {
		if len(list) == 0 {
			m.empty.Show()
		} else {
			m.empty.Hide()
		}
	}
}

// line returns the text of the i-th visible item.
func (m *entryMenu) line(i int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.lines) {
		return "", false
	}
	return m.lines[i], true
}
