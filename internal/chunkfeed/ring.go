/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package chunkfeed batches match results produced by concurrent corpus
// scanning workers so that a single consumer (a writer, a progress
// reporter, an aggregator) sees them in manageable slices instead of one
// call per pair compared.
package chunkfeed

import (
	"sync"
	"sync/atomic"
	"time"
)

// BufferType selects the striping strategy used by a Buffer.
type BufferType byte

const (
	// Lossy trades a small chance of dropped results (stripes reclaimed
	// by the GC between Push and drain) for lower contention; fine for
	// progress reporting.
	Lossy BufferType = iota
	// Lossless guarantees every pushed Match reaches the Consumer, at
	// the cost of a short spin when all stripes are momentarily busy.
	Lossless
)

// Match is one confirmed or rejected comparison result, identified by the
// two digest names involved.
type Match struct {
	A, B  string
	Score float32
}

// Consumer receives batches of Match as stripes fill up.
type Consumer interface {
	Push([]Match)
}

// stripe is a single ring buffer; not safe for concurrent use by itself.
type stripe struct {
	consumer Consumer
	data     []Match
	head     int
	capacity int
	busy     int32
}

func newStripe(consumer Consumer, capacity int) *stripe {
	return &stripe{
		consumer: consumer,
		data:     make([]Match, capacity),
		capacity: capacity,
	}
}

func (s *stripe) push(m Match) {
	s.data[s.head] = m
	s.head++
	if s.head >= s.capacity {
		s.consumer.Push(append(s.data[:0:0], s.data...))
		s.head = 0
	}
}

// Config parameterizes a Buffer.
type Config struct {
	Consumer Consumer
	Stripes  int
	Capacity int
}

// Buffer distributes pushed Match values across multiple stripes to lower
// contention between scanning workers, draining each stripe to Consumer
// once it fills.
type Buffer struct {
	stripes []*stripe
	pool    *sync.Pool
	push    func(*Buffer, Match)
	rand    int
	mask    int
}

// NewBuffer returns a striped batching buffer of the given type.
func NewBuffer(kind BufferType, cfg *Config) *Buffer {
	if kind == Lossy {
		return &Buffer{
			pool: &sync.Pool{
				New: func() interface{} { return newStripe(cfg.Consumer, cfg.Capacity) },
			},
			push: pushLossy,
		}
	}

	stripes := make([]*stripe, cfg.Stripes)
	for i := range stripes {
		stripes[i] = newStripe(cfg.Consumer, cfg.Capacity)
	}
	return &Buffer{
		stripes: stripes,
		mask:    cfg.Stripes - 1,
		rand:    int(time.Now().UnixNano()),
		push:    pushLossless,
	}
}

// Push hands one Match to the buffer; it is routed to a stripe and may
// trigger a drain to Consumer.
func (b *Buffer) Push(m Match) { b.push(b, m) }

func pushLossy(b *Buffer, m Match) {
	s := b.pool.Get().(*stripe)
	s.push(m)
	b.pool.Put(s)
}

func pushLossless(b *Buffer, m Match) {
	b.rand ^= b.rand << 13
	b.rand ^= b.rand >> 7
	b.rand ^= b.rand << 17
	for i := b.rand & b.mask; ; i = (i + 1) & b.mask {
		if atomic.CompareAndSwapInt32(&b.stripes[i].busy, 0, 1) {
			b.stripes[i].push(m)
			atomic.StoreInt32(&b.stripes[i].busy, 0)
			return
		}
	}
}
