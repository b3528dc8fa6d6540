package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Subscriber is an independent read cursor into a Ring.
// Next must not be called concurrently on the same subscriber.
type Subscriber[T any] struct {
	ring *Ring[T]

	// next is the sequence of the value to deliver on the following call; guarded by ring.mu.
	next   uint64
	closed bool // guarded by ring.mu

	lagged    atomic.Uint64
	delivered atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

// Next blocks until a value newer than the cursor is available and returns it.
//
// If the cursor fell behind the oldest retained value it is moved to that value and the
// skipped count is added to Lagged. Once the ring is closed and drained, or aborted, Next
// returns ErrClosed; after Close on the subscriber it returns ErrSubscriberClosed.
func (s *Subscriber[T]) Next(ctx context.Context) (T, error) {
	var zero T
	r := s.ring

	for {
		r.mu.Lock()
		if s.closed {
			r.mu.Unlock()
			return zero, ErrSubscriberClosed
		}

		if r.aborted {
			r.mu.Unlock()
			return zero, ErrClosed
		}

		if s.next <= r.written {
			if oldest := r.oldestLocked(); s.next < oldest {
				s.lagged.Add(oldest - s.next)
				s.next = oldest
			}
			v := r.buf[r.index(s.next)]
			s.next++
			r.mu.Unlock()

			s.delivered.Add(1)
			return v, nil
		}

		if r.closed {
			r.mu.Unlock()
			return zero, ErrClosed
		}

		wait := r.changed
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-s.done:
			return zero, ErrSubscriberClosed
		case <-wait:
		}
	}
}

// Lagged returns how many values were skipped because the subscriber fell behind.
func (s *Subscriber[T]) Lagged() uint64 {
	return s.lagged.Load()
}

// Delivered returns how many values Next has returned.
func (s *Subscriber[T]) Delivered() uint64 {
	return s.delivered.Load()
}

// Close unregisters the subscriber and wakes a pending Next.
// Safe to call multiple times.
func (s *Subscriber[T]) Close() {
	s.closeOnce.Do(func() {
		r := s.ring
		r.mu.Lock()
		s.closed = true
		r.subs--
		r.mu.Unlock()
		close(s.done)
	})
}
