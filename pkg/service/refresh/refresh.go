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

// Package refresh drives periodic re-rendering of entry clocks. The cadence
// follows the host's lifecycle: every second while the host is in the
// foreground, once a minute while it is in the background.
package refresh

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	ActiveCadence     = time.Second
	BackgroundCadence = time.Minute
	MaxOffset         = 24 * time.Hour
)

type Lifecycle int

const (
	Active Lifecycle = iota
	Background
)

// Normalize maps unknown lifecycle values to Active, so a host that never
// reports its state still refreshes every second.
func (l Lifecycle) Normalize() Lifecycle {
	if l == Background {
		return Background
	}
	return Active
}

func (l Lifecycle) Cadence() time.Duration {
	if l.Normalize() == Background {
		return BackgroundCadence
	}
	return ActiveCadence
}

func (l Lifecycle) String() string {
	if l.Normalize() == Background {
		return "background"
	}
	return "active"
}

func ParseLifecycle(s string) Lifecycle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background", "inactive":
		return Background
	default:
		return Active
	}
}

// TickFunc receives the offset-adjusted instant on every tick.
type TickFunc func(now time.Time)

// Scheduler calls a TickFunc on a repeating timer. Ticks run one at a time
// on the scheduler goroutine and never overlap.
type Scheduler struct {
	clock     clockwork.Clock
	onTick    TickFunc
	cancel    context.CancelFunc
	done      chan struct{}
	changed   chan struct{}
	kick      chan struct{}
	cadence   atomic.Int64
	offset    time.Duration
	lifecycle Lifecycle
	mu        syncutil.Mutex
}

// NewScheduler creates a stopped scheduler. A nil clock uses the real clock.
func NewScheduler(clock clockwork.Clock, initial Lifecycle, onTick TickFunc) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:     clock,
		onTick:    onTick,
		lifecycle: initial.Normalize(),
		changed:   make(chan struct{}, 1),
		kick:      make(chan struct{}, 1),
	}
}

// Start runs the tick loop until Stop is called or ctx is done. The first
// tick happens immediately. Starting a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(loopCtx, s.done, s.lifecycle)
}

// Stop cancels the ticker and waits for the loop to exit. It is safe to
// call more than once, and the scheduler may be started again afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, state Lifecycle) {
	defer close(done)

	ticker := s.clock.NewTicker(state.Cadence())
	s.cadence.Store(int64(state.Cadence()))
	defer func() {
		ticker.Stop()
		s.cadence.Store(0)
	}()

	log.Debug().Stringer("lifecycle", state).Msg("refresh scheduler started")
	s.tick()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("refresh scheduler stopped")
			return
		case <-ticker.Chan():
			s.tick()
		case <-s.kick:
			s.tick()
		case <-s.changed:
			next := s.Lifecycle()
			if next == state {
				continue
			}
			ticker.Stop()
			state = next
			ticker = s.clock.NewTicker(state.Cadence())
			s.cadence.Store(int64(state.Cadence()))
			log.Debug().Stringer("lifecycle", state).Msg("refresh cadence changed")
		}
	}
}

func (s *Scheduler) tick() {
	if s.onTick == nil {
		return
	}
	s.onTick(s.Now())
}

func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// SetLifecycle switches the cadence. The current ticker is replaced; no
// extra tick is fired by the switch itself.
func (s *Scheduler) SetLifecycle(l Lifecycle) {
	l = l.Normalize()
	s.mu.Lock()
	if s.lifecycle == l {
		s.mu.Unlock()
		return
	}
	s.lifecycle = l
	s.mu.Unlock()
	poke(s.changed)
}

func (s *Scheduler) Lifecycle() Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle
}

// Cadence is the interval of the running ticker, or zero when stopped.
func (s *Scheduler) Cadence() time.Duration {
	return time.Duration(s.cadence.Load())
}

// SetOffset sets the preview offset added to the clock, clamped to ±24h and
// rounded to the minute. A running scheduler ticks straight away so hosts
// can re-render.
func (s *Scheduler) SetOffset(d time.Duration) {
	d = ClampOffset(d)
	s.mu.Lock()
	s.offset = d
	running := s.done != nil
	s.mu.Unlock()
	if running {
		poke(s.kick)
	}
}

func (s *Scheduler) Offset() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// Now is the clock's current time plus the preview offset.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now().Add(s.Offset())
}

func ClampOffset(d time.Duration) time.Duration {
	d = d.Round(time.Minute)
	switch {
	case d > MaxOffset:
		return MaxOffset
	case d < -MaxOffset:
		return -MaxOffset
	default:
		return d
	}
}
