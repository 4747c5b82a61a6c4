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

package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/ZaparooProject/there/pkg/photos"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/ZaparooProject/there/pkg/service/refresh"
	"github.com/ZaparooProject/there/pkg/timezones"
	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	PageBoard   = "board"
	PageConfirm = "confirm_delete"

	// OffsetStep is how far one arrow key press moves the preview.
	OffsetStep = 30 * time.Minute

	emptyText = "No entries yet. Add one with: there add --search <city>"
	helpText  = "←/→ preview  0 now  s sort  d delete  q quit"
)

type Options struct {
	Store  database.EntryStore
	Photos *photos.Store
	Clock  clockwork.Clock
	// Local is the zone deltas are measured against. Nil means UTC.
	Local       *time.Location
	Theme       *Theme
	Order       presenter.SortOrder
	IdleTimeout time.Duration
	Clock24     bool
	// OnSortChange runs on the UI goroutine after the user toggles the
	// sort order.
	OnSortChange func(presenter.SortOrder)
}

// Board is the terminal host: a table of entries kept current by a
// presenter session. Any key press makes the session active; no input for
// IdleTimeout drops it to the background cadence.
type Board struct {
	app      *tview.Application
	pages    *tview.Pages
	table    *tview.Table
	status   *tview.TextView
	session  *presenter.Session
	store    database.EntryStore
	photos   *photos.Store
	clock    clockwork.Clock
	theme    *Theme
	onSort   func(presenter.SortOrder)
	activity chan struct{}
	cancel   context.CancelFunc
	idleDone chan struct{}
	// rows is only touched on the UI goroutine.
	rows   []presenter.DisplayEntry
	latest []presenter.DisplayEntry
	notice string
	idle   time.Duration
	mu     syncutil.Mutex
	queued atomic.Bool
}

//nolint:gocritic // options passed by value
func NewBoard(app *tview.Application, opts Options) *Board {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	theme := opts.Theme
	if theme == nil {
		theme = CurrentTheme()
	}

	b := &Board{
		app:      app,
		store:    opts.Store,
		photos:   opts.Photos,
		clock:    clock,
		theme:    theme,
		onSort:   opts.OnSortChange,
		idle:     opts.IdleTimeout,
		activity: make(chan struct{}, 1),
	}

	b.session = presenter.NewSession(
		opts.Store,
		clock,
		refresh.Active,
		opts.Order,
		presenter.Options{Local: opts.Local, Clock24: opts.Clock24},
		b.onRender,
	)

	b.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	b.table.SetInputCapture(b.handleKey)

	b.status = tview.NewTextView()

	frame := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.table, 0, 1, true).
		AddItem(b.status, 2, 0, false)
	frame.SetBorder(true).
		SetTitle(" There ").
		SetTitleAlign(tview.AlignCenter)

	b.pages = tview.NewPages()
	b.pages.AddPage(PageBoard, frame, true, true)
	b.pages.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		b.touch()
		return event
	})

	b.fill(nil)
	return b
}

func (b *Board) Root() tview.Primitive {
	return b.pages
}

func (b *Board) Session() *presenter.Session {
	return b.session
}

// Start begins refreshing and watching for idleness.
func (b *Board) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.idleDone = make(chan struct{})
	b.session.Start(ctx)
	go b.watchIdle(ctx)
}

func (b *Board) Close() {
	if b.cancel != nil {
		b.cancel()
		<-b.idleDone
	}
	b.session.Close()
}

// onRender runs on the session goroutine. At most one UI update is queued
// at a time and it always draws the newest list.
func (b *Board) onRender(list []presenter.DisplayEntry) {
	b.mu.Lock()
	b.latest = list
	b.mu.Unlock()
	if !b.queued.Swap(true) {
		b.app.QueueUpdateDraw(b.flush)
	}
}

func (b *Board) flush() {
	b.queued.Store(false)
	b.mu.Lock()
	list := b.latest
	b.mu.Unlock()
	b.fill(list)
}

func (b *Board) fill(list []presenter.DisplayEntry) {
	var selectedID int64
	if row, _ := b.table.GetSelection(); row > 0 && row <= len(b.rows) {
		selectedID = b.rows[row-1].ID
	}

	b.rows = list
	b.table.Clear()

	headers := []string{"", "Name", "Place", "Time", "Delta", ""}
	for col, h := range headers {
		b.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(b.theme.HeaderColor).
			SetSelectable(false))
	}

	if len(list) == 0 {
		b.table.SetCell(1, 1, tview.NewTableCell(emptyText).
			SetTextColor(b.theme.SecondaryTextColor).
			SetSelectable(false))
		b.updateStatus()
		return
	}

	selectRow := 1
	for i := range list {
		d := &list[i]
		row := i + 1
		b.table.SetCell(row, 0, tview.NewTableCell(d.Glyph()))
		b.table.SetCell(row, 1, tview.NewTableCell(d.Title).SetExpansion(1))
		b.table.SetCell(row, 2, tview.NewTableCell(place(&d.Entry)).
			SetTextColor(b.theme.SecondaryTextColor).
			SetExpansion(1))
		b.table.SetCell(row, 3, tview.NewTableCell(d.FormattedLocalTime).
			SetAlign(tview.AlignRight))
		b.table.SetCell(row, 4, tview.NewTableCell(d.DeltaLabel).
			SetTextColor(b.theme.deltaColor(d.Hours, d.Minutes)).
			SetAlign(tview.AlignRight))
		b.table.SetCell(row, 5, tview.NewTableCell(presenter.PeriodGlyph(d.DayPeriod)))
		if d.ID == selectedID {
			selectRow = row
		}
	}
	b.table.Select(selectRow, 0)
	b.updateStatus()
}

func place(e *database.Entry) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{e.City, e.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return e.TimezoneIdentifier
	}
	return strings.Join(parts, ", ")
}

func (b *Board) updateStatus() {
	preview := "now"
	if label := timezones.OffsetLabel(b.session.Offset()); label != "" {
		preview = label
	}
	order := "earliest first"
	if b.session.SortOrder() == presenter.TimeDescending {
		order = "latest first"
	}

	line := fmt.Sprintf("Preview: %s   Sort: %s", preview, order)
	if b.notice != "" {
		line += "   " + b.notice
	}
	b.status.SetText(line + "\n" + helpText)
}

func (b *Board) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() { //nolint:exhaustive
	case tcell.KeyLeft:
		b.session.SetOffset(b.session.Offset() - OffsetStep)
		return nil
	case tcell.KeyRight:
		b.session.SetOffset(b.session.Offset() + OffsetStep)
		return nil
	case tcell.KeyEscape:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case '0':
			b.session.SetOffset(0)
			return nil
		case 's':
			order := b.session.SortOrder().Toggle()
			b.session.SetSortOrder(order)
			if b.onSort != nil {
				b.onSort(order)
			}
			return nil
		case 'd':
			b.confirmDelete()
			return nil
		case 'q':
			b.app.Stop()
			return nil
		}
	}
	return event
}

func (b *Board) selected() (presenter.DisplayEntry, bool) {
	row, _ := b.table.GetSelection()
	if row < 1 || row > len(b.rows) {
		return presenter.DisplayEntry{}, false
	}
	return b.rows[row-1], true
}

func (b *Board) confirmDelete() {
	entry, ok := b.selected()
	if !ok {
		return
	}

	modal := genericModal(
		fmt.Sprintf("Delete %s?", entry.Title),
		"Delete",
		[]string{"Delete", "Cancel"},
		func(_ int, label string) {
			b.pages.RemovePage(PageConfirm)
			b.app.SetFocus(b.table)
			if label == "Delete" {
				go b.delete(entry.Entry)
			}
		},
	)
	b.pages.AddPage(PageConfirm, modal, true, true)
	b.app.SetFocus(modal)
}

// delete runs off the UI goroutine; the store publishes the new snapshot
// which redraws the table.
func (b *Board) delete(e database.Entry) {
	if err := b.store.DeleteEntry(e.ID); err != nil {
		log.Error().Err(err).Int64("id", e.ID).Msg("failed to delete entry")
		b.app.QueueUpdateDraw(func() {
			b.notice = "Delete failed: " + err.Error()
			b.updateStatus()
		})
		return
	}
	log.Info().Int64("id", e.ID).Str("name", e.DisplayName()).Msg("deleted entry")

	if b.photos != nil && photos.IsStored(e.PhotoData) {
		if err := b.photos.Remove(e.PhotoData); err != nil {
			log.Warn().Err(err).Str("photo", e.PhotoData).Msg("failed to remove photo")
		}
	}
}

// touch records user input.
func (b *Board) touch() {
	if b.session.Lifecycle() != refresh.Active {
		b.session.SetLifecycle(refresh.Active)
	}
	select {
	case b.activity <- struct{}{}:
	default:
	}
}

func (b *Board) watchIdle(ctx context.Context) {
	defer close(b.idleDone)
	if b.idle <= 0 {
		<-ctx.Done()
		return
	}

	timer := b.clock.NewTimer(b.idle)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.activity:
			timer.Stop()
			select {
			case <-timer.Chan():
			default:
			}
			timer.Reset(b.idle)
		case <-timer.Chan():
			log.Debug().Dur("idle", b.idle).Msg("no input, switching to background refresh")
			b.session.SetLifecycle(refresh.Background)
		}
	}
}

// Run shows the board full screen until the user quits or ctx is done.
//
//nolint:gocritic // options passed by value
func Run(ctx context.Context, opts Options) error {
	app := tview.NewApplication()
	return run(ctx, app, opts)
}

//nolint:gocritic // options passed by value
func run(ctx context.Context, app *tview.Application, opts Options) error {
	b := NewBoard(app, opts)
	app.SetRoot(b.Root(), true)

	b.Start(ctx)
	defer b.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-stop:
		}
	}()

	if err := app.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
