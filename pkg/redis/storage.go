package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a namespaced byte-value store on top of a Redis client.
type Storage struct {
	db     redis.UniversalClient
	prefix string
}

// NewStorage wraps client. Every key is prefixed with prefix.
func NewStorage(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: client, prefix: prefix}
}

// Get returns the value stored under key, or nil when it does not exist.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val under key. A zero exp keeps the key without expiry.
func (s *Storage) Set(ctx context.Context, key string, val []byte, exp time.Duration) error {
	return s.db.Set(ctx, s.prefix+key, val, exp).Err()
}

// Delete removes keys; missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.db.Del(ctx, full...).Err()
}
