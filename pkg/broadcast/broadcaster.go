package broadcast

import (
	"context"
	"sync"
)

// Broadcaster fans values out to in-process subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the value.
// All methods are safe for concurrent use.
type Broadcaster[T any] struct {
	subs       map[*Subscription[T]]struct{}
	bufferSize int
	closed     bool
	done       chan struct{}
	mu         sync.RWMutex
}

// New creates a broadcaster whose subscriptions buffer bufferSize values
// (at least one).
func New[T any](bufferSize int) *Broadcaster[T] {
	return &Broadcaster[T]{
		subs:       make(map[*Subscription[T]]struct{}),
		bufferSize: max(bufferSize, 1),
		done:       make(chan struct{}),
	}
}

// Subscribe registers a subscription that ends when ctx is done or Close is
// called. Subscribing to a closed broadcaster returns a closed subscription.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscription[T](b.bufferSize)
	if b.closed {
		sub.Close()
		return sub
	}
	b.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-b.done:
			}
		}()
	}
	return sub
}

// Publish offers v to every subscription and returns how many accepted it.
func (b *Broadcaster[T]) Publish(v T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}
	delivered := 0
	for sub := range b.subs {
		if sub.offer(v) {
			delivered++
		}
	}
	return delivered
}

// Len returns the number of active subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Later Publish calls are no-ops.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	for sub := range b.subs {
		sub.Close()
	}
	clear(b.subs)
	b.mu.Unlock()
}

func (b *Broadcaster[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
	sub.Close()
}
