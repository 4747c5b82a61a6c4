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

// Package broker fans values from a single source channel out to any number
// of subscribers. Each subscriber gets the most recent value as soon as it
// subscribes, so consumers of full snapshots never start empty-handed.
package broker

import (
	"context"

	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

type Broker[T any] struct {
	ctx         context.Context
	source      <-chan T
	subscribers map[int]chan T
	latest      T
	mu          syncutil.RWMutex
	nextID      int
	hasLatest   bool
}

func NewBroker[T any](ctx context.Context, source <-chan T) *Broker[T] {
	return &Broker[T]{
		ctx:         ctx,
		source:      source,
		subscribers: make(map[int]chan T),
		nextID:      0,
	}
}

func (b *Broker[T]) Start() {
	go func() {
		for {
			select {
			case v, ok := <-b.source:
				if !ok {
					log.Debug().Msg("broker: source channel closed")
					b.closeAllSubscribers()
					return
				}
				b.broadcast(v)
			case <-b.ctx.Done():
				log.Debug().Msg("broker: context cancelled, shutting down")
				b.closeAllSubscribers()
				return
			}
		}
	}()
}

func (b *Broker[T]) broadcast(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = v
	b.hasLatest = true

	for id, ch := range b.subscribers {
		if !offer(ch, v) {
			log.Warn().
				Int("subscriber_id", id).
				Msg("subscriber channel full, dropping value")
		}
	}
}

// offer sends v without blocking. When the channel is full the oldest
// buffered value is discarded to make room, since every value supersedes
// the ones before it.
func offer[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}

// Subscribe registers a new subscriber. Buffer sizes below one are raised to
// one so the latest value can always be delivered.
func (b *Broker[T]) Subscribe(bufferSize int) (ch <-chan T, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if bufferSize < 1 {
		bufferSize = 1
	}

	id = b.nextID
	b.nextID++

	sub := make(chan T, bufferSize)
	if b.hasLatest {
		sub <- b.latest
	}
	b.subscribers[id] = sub

	log.Debug().
		Int("subscriber_id", id).
		Int("buffer_size", bufferSize).
		Msg("new subscriber registered")

	return sub, id
}

func (b *Broker[T]) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
		log.Debug().Int("subscriber_id", id).Msg("subscriber unsubscribed")
	}
}

// Latest returns the most recent value and whether one has been seen.
func (b *Broker[T]) Latest() (v T, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.hasLatest
}

func (b *Broker[T]) Stop() {
	b.closeAllSubscribers()
}

func (b *Broker[T]) closeAllSubscribers() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		close(ch)
		log.Debug().Int("subscriber_id", id).Msg("closed subscriber channel on shutdown")
	}
	b.subscribers = make(map[int]chan T)
}
