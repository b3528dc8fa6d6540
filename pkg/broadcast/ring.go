package broadcast

import (
	"sync"
)

// Ring is a fixed-capacity broadcast buffer holding the most recent published values.
// Publishing never blocks; subscribers that fall behind lose the oldest values.
type Ring[T any] struct {
	mu      sync.Mutex
	buf     []T
	written uint64 // sequence of the newest value, 0 before the first publish
	closed  bool
	aborted bool // closed without letting subscribers drain
	subs    int

	// changed is closed and replaced whenever a value is published or the ring closes.
	changed chan struct{}
}

// Stats is a point-in-time view of a Ring.
type Stats struct {
	Capacity    int
	Published   uint64 // total values published since creation
	Retained    int    // values currently held in the buffer
	Subscribers int    // subscribers not yet closed
	Closed      bool
}

// NewRing creates a ring retaining up to capacity values.
// A capacity below 1 is treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{
		buf:     make([]T, capacity),
		changed: make(chan struct{}),
	}
}

// Publish stores v as the newest value, evicting the oldest one when the buffer is full.
// It returns the sequence number assigned to v, or 0 if the ring is closed.
func (r *Ring[T]) Publish(v T) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0
	}

	r.written++
	r.buf[r.index(r.written)] = v
	r.notifyLocked()

	return r.written
}

// Subscribe returns a subscriber positioned after the newest value.
// Values published before the call are never delivered to it.
func (r *Ring[T]) Subscribe() *Subscriber[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs++
	return &Subscriber[T]{
		ring: r,
		next: r.written + 1,
		done: make(chan struct{}),
	}
}

// Latest returns the newest retained value and its sequence number.
// ok is false if nothing has been published yet.
func (r *Ring[T]) Latest() (v T, seq uint64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.written == 0 {
		return v, 0, false
	}
	return r.buf[r.index(r.written)], r.written, true
}

// Close stops accepting new values and wakes every waiting subscriber.
// Calling Close more than once is a no-op.
func (r *Ring[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.notifyLocked()
}

// Abort closes the ring and discards retained values for delivery: every pending and
// later Next returns ErrClosed immediately. Latest still reports the newest value.
func (r *Ring[T]) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.aborted {
		return
	}
	r.aborted = true
	r.closed = true
	r.notifyLocked()
}

// Closed reports whether Close or Abort has been called.
func (r *Ring[T]) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Stats returns current counters.
func (r *Ring[T]) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	retained := len(r.buf)
	if r.written < uint64(retained) {
		retained = int(r.written)
	}

	return Stats{
		Capacity:    len(r.buf),
		Published:   r.written,
		Retained:    retained,
		Subscribers: r.subs,
		Closed:      r.closed,
	}
}

// Capacity returns the maximum number of retained values.
func (r *Ring[T]) Capacity() int {
	return len(r.buf)
}

func (r *Ring[T]) index(seq uint64) uint64 {
	return (seq - 1) % uint64(len(r.buf))
}

// oldestLocked returns the sequence of the oldest retained value.
func (r *Ring[T]) oldestLocked() uint64 {
	capacity := uint64(len(r.buf))
	if r.written <= capacity {
		return 1
	}
	return r.written - capacity + 1
}

func (r *Ring[T]) notifyLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}
