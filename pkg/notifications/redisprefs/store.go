// Package redisprefs caches notification preferences in Redis in front of a
// durable notifications.PreferenceStore.
//
// Reads go to the cache first and fall back to the wrapped store on a miss or
// a cache error. Updates are written to the wrapped store and then evicted
// from the cache, so a failed write never leaves stale data behind.
//
//	cache := redis.NewStorage(client, cfg.KeyPrefix)
//	prefs := redisprefs.New(pgstore.NewPreferenceStore(pool), cache,
//		redisprefs.WithTTL(10*time.Minute),
//		redisprefs.WithLogger(log),
//	)
package redisprefs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

// DefaultTTL bounds how long cached preferences may lag behind the store.
const DefaultTTL = 15 * time.Minute

const keyPrefix = "prefs:"

// Cache is the byte-value store the preferences are cached in.
// redis.Storage satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, exp time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Store is a cache-aside notifications.PreferenceStore.
type Store struct {
	next   notifications.PreferenceStore
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps next with cache.
func New(next notifications.PreferenceStore, cache Cache, opts ...Option) *Store {
	s := &Store{
		next:   next,
		cache:  cache,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns cached preferences when present. Cache failures are
// logged and never fail the read.
func (s *Store) GetOrCreate(ctx context.Context, userID string) (notifications.Preferences, error) {
	key := keyPrefix + userID

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "preferences cache read failed",
			logger.UserID(userID),
			logger.Error(err),
		)
	}
	if len(raw) > 0 {
		var p notifications.Preferences
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
		s.logger.WarnContext(ctx, "dropping undecodable cached preferences", logger.UserID(userID))
		_ = s.cache.Delete(ctx, key)
	}

	p, err := s.next.GetOrCreate(ctx, userID)
	if err != nil {
		return notifications.Preferences{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "preferences cache write failed",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	}
	return p, nil
}

// Update writes prefs through to the wrapped store and then evicts the
// cached copy.
func (s *Store) Update(ctx context.Context, prefs notifications.Preferences) error {
	if err := s.next.Update(ctx, prefs); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, keyPrefix+prefs.UserID); err != nil {
		s.logger.WarnContext(ctx, "preferences cache eviction failed",
			logger.UserID(prefs.UserID),
			logger.Error(err),
		)
	}
	return nil
}
