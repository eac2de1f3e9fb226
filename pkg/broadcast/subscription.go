package broadcast

import (
	"sync"
	"sync/atomic"
)

// Subscription receives values published to a Broadcaster.
type Subscription[T any] struct {
	ch      chan T
	closed  bool
	dropped atomic.Int64
	mu      sync.RWMutex
}

func newSubscription[T any](bufferSize int) *Subscription[T] {
	return &Subscription[T]{ch: make(chan T, bufferSize)}
}

// C returns the receive channel. It is closed when the subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Dropped returns how many values were discarded because the buffer was full.
func (s *Subscription[T]) Dropped() int64 {
	return s.dropped.Load()
}

// Close ends the subscription. It is idempotent.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// offer delivers v without blocking and reports whether it was accepted.
func (s *Subscription[T]) offer(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- v:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}
