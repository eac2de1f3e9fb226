package notifications

import (
	"context"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/cache"
)

// CachedPreferenceStore keeps recently read preferences in a process-local
// LRU with a TTL. Update writes through and invalidates the entry.
type CachedPreferenceStore struct {
	next  PreferenceStore
	cache *cache.LRUCache[string, Preferences]
}

// NewCachedPreferenceStore wraps next with an LRU of the given capacity.
// A ttl of zero keeps entries until evicted.
func NewCachedPreferenceStore(next PreferenceStore, capacity int, ttl time.Duration) *CachedPreferenceStore {
	return &CachedPreferenceStore{
		next:  next,
		cache: cache.NewLRUCache[string, Preferences](capacity, cache.WithTTL(ttl)),
	}
}

func (s *CachedPreferenceStore) GetOrCreate(ctx context.Context, userID string) (Preferences, error) {
	if p, ok := s.cache.Get(userID); ok {
		return p, nil
	}
	p, err := s.next.GetOrCreate(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	s.cache.Put(userID, p)
	return p, nil
}

func (s *CachedPreferenceStore) Update(ctx context.Context, prefs Preferences) error {
	if err := s.next.Update(ctx, prefs); err != nil {
		return err
	}
	s.cache.Remove(prefs.UserID)
	return nil
}
