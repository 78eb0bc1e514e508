// Package flow holds the small synchronization primitives the call
// pipeline is built from: an unbounded FIFO queue for hand-off between
// stages, a single-slot cell that keeps only the latest value, and a
// boolean flag the stages poll for shutdown and mode changes.
package flow

import (
	"sync"
	"sync/atomic"
)

// Queue is an unbounded FIFO shared between one or more producers and
// consumers. Pop never blocks; stages poll it on their own cadence.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Pop removes and returns the oldest item, or reports false when the
// queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cell is a single-slot, last-write-wins container. Writers overwrite
// whatever is there; readers always see the most recent value and never
// consume it. It carries the values where only freshness matters, like
// the caption on the next video frame or the newest remote frame.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

func (c *Cell[T]) Set(v T) {
	c.p.Store(&v)
}

// Get returns the latest value, or reports false if nothing was ever
// set.
func (c *Cell[T]) Get() (T, bool) {
	p := c.p.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Flag is a boolean shared between stages. One stage owns the writes;
// everyone else polls.
type Flag struct {
	b atomic.Bool
}

func NewFlag(v bool) *Flag {
	f := &Flag{}
	f.b.Store(v)
	return f
}

func (f *Flag) Set(v bool) {
	f.b.Store(v)
}

func (f *Flag) Get() bool {
	return f.b.Load()
}

// Toggle flips the flag and returns the new value.
func (f *Flag) Toggle() bool {
	for {
		old := f.b.Load()
		if f.b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
