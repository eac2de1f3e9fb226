package notifications

import (
	"context"
	"sync"

	"github.com/dmitrymomot/mentorkit/pkg/broadcast"
	"github.com/dmitrymomot/mentorkit/pkg/cache"
)

// LiveFeed pushes newly persisted records to connected clients of their owner.
// It implements Publisher. Per-user broadcasters live in an LRU; an evicted
// user's subscriptions are closed and clients are expected to reconnect.
type LiveFeed struct {
	users      *cache.LRUCache[string, *broadcast.Broadcaster[Record]]
	bufferSize int
	mu         sync.Mutex
}

// NewLiveFeed creates a feed buffering bufferSize records per subscriber for
// at most maxUsers concurrently connected users.
func NewLiveFeed(bufferSize, maxUsers int) *LiveFeed {
	f := &LiveFeed{
		users:      cache.NewLRUCache[string, *broadcast.Broadcaster[Record]](max(maxUsers, 1)),
		bufferSize: bufferSize,
	}
	f.users.SetEvictCallback(func(_ string, b *broadcast.Broadcaster[Record]) {
		b.Close()
	})
	return f
}

// Subscribe returns a subscription to userID's new records, ending with ctx.
func (f *LiveFeed) Subscribe(ctx context.Context, userID string) *broadcast.Subscription[Record] {
	f.mu.Lock()
	b, ok := f.users.Get(userID)
	if !ok {
		b = broadcast.New[Record](f.bufferSize)
		f.users.Put(userID, b)
	}
	f.mu.Unlock()
	return b.Subscribe(ctx)
}

// Publish sends rec to its owner's live subscribers, if any are connected.
func (f *LiveFeed) Publish(_ context.Context, rec Record) error {
	if b, ok := f.users.Get(rec.UserID); ok {
		b.Publish(rec)
	}
	return nil
}

// Close ends all subscriptions.
func (f *LiveFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users.Clear()
}
