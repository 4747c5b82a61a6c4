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

package presenter

import (
	"context"
	"time"

	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/ZaparooProject/there/pkg/service/refresh"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// RenderFunc receives a fresh list after every snapshot, tick or setting
// change. It is always called from the session goroutine.
type RenderFunc func([]DisplayEntry)

// Subscriber is the part of the entry store a session needs.
type Subscriber interface {
	Subscribe(bufferSize int) (<-chan []database.Entry, int)
	Unsubscribe(id int)
}

// Session keeps one host's view current. It owns a refresh scheduler and a
// store subscription and funnels both into a single goroutine, so rendering
// never runs concurrently with itself.
type Session struct {
	store   Subscriber
	sched   *refresh.Scheduler
	render  RenderFunc
	ticks   chan time.Time
	redraw  chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
	opts    Options
	order   SortOrder
	subID   int
	mu      syncutil.RWMutex
	started bool
}

//nolint:gocritic // options passed by value
func NewSession(
	store Subscriber,
	clock clockwork.Clock,
	initial refresh.Lifecycle,
	order SortOrder,
	opts Options,
	render RenderFunc,
) *Session {
	s := &Session{
		store:  store,
		render: render,
		order:  order,
		opts:   opts,
		ticks:  make(chan time.Time, 1),
		redraw: make(chan struct{}, 1),
	}
	s.sched = refresh.NewScheduler(clock, initial, s.onTick)
	return s
}

// onTick runs on the scheduler goroutine; it only hands the instant over so
// a slow render never holds up the scheduler.
func (s *Session) onTick(now time.Time) {
	select {
	case s.ticks <- now:
		return
	default:
	}
	select {
	case <-s.ticks:
	default:
	}
	select {
	case s.ticks <- now:
	default:
	}
}

// Start subscribes to the store and starts the scheduler. Calling Start on
// a running session does nothing.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	snapshots, id := s.store.Subscribe(1)
	s.subID = id
	s.mu.Unlock()

	go s.run(loopCtx, snapshots)
	s.sched.Start(loopCtx)
}

func (s *Session) run(ctx context.Context, snapshots <-chan []database.Entry) {
	defer close(s.done)

	var entries []database.Entry
	loaded := false

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				log.Debug().Msg("session: entry subscription closed")
				return
			}
			entries = snap
			loaded = true
			s.draw(entries, s.sched.Now())
		case now := <-s.ticks:
			if loaded {
				s.draw(entries, now)
			}
		case <-s.redraw:
			if loaded {
				s.draw(entries, s.sched.Now())
			}
		}
	}
}

// draw renders at an instant that already includes the preview offset.
func (s *Session) draw(entries []database.Entry, now time.Time) {
	s.mu.RLock()
	order, opts := s.order, s.opts
	s.mu.RUnlock()

	if s.render != nil {
		s.render(Present(entries, order, now, 0, opts))
	}
}

func (s *Session) requestRedraw() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

// Close stops the scheduler, ends the subscription and waits for the
// session goroutine. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, done, id := s.cancel, s.done, s.subID
	s.mu.Unlock()

	s.sched.Stop()
	cancel()
	<-done
	s.store.Unsubscribe(id)
}

func (s *Session) SortOrder() SortOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order
}

func (s *Session) SetSortOrder(order SortOrder) {
	s.mu.Lock()
	s.order = order
	s.mu.Unlock()
	s.requestRedraw()
}

//nolint:gocritic // options passed by value
func (s *Session) SetOptions(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	s.requestRedraw()
}

// SetOffset moves the preview offset; the scheduler ticks immediately.
func (s *Session) SetOffset(d time.Duration) {
	s.sched.SetOffset(d)
}

func (s *Session) Offset() time.Duration {
	return s.sched.Offset()
}

func (s *Session) SetLifecycle(l refresh.Lifecycle) {
	s.sched.SetLifecycle(l)
}

func (s *Session) Lifecycle() refresh.Lifecycle {
	return s.sched.Lifecycle()
}
