package notifications

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage for development and tests.
type MemoryStorage struct {
	records map[string]*Record  // id -> record
	byUser  map[string][]string // userID -> ids in insertion order
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*Record),
		byUser:  make(map[string][]string),
		now:     time.Now,
	}
}

// WithClock replaces the storage clock; used by tests for expiry.
func (s *MemoryStorage) WithClock(now func() time.Time) *MemoryStorage {
	s.now = now
	return s
}

func (s *MemoryStorage) Create(_ context.Context, rec Record) (string, error) {
	if rec.UserID == "" {
		return "", errors.New("user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, exists := s.records[rec.ID]; exists {
		return "", errors.New("duplicate notification ID")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
		rec.UpdatedAt = rec.CreatedAt
	}

	s.records[rec.ID] = &rec
	s.byUser[rec.UserID] = append(s.byUser[rec.UserID], rec.ID)
	return rec.ID, nil
}

func (s *MemoryStorage) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	// copy so callers cannot mutate stored state
	out := *rec
	return &out, nil
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	filtered := make([]Record, 0)
	for _, id := range s.byUser[userID] {
		rec := s.records[id]
		if rec.IsExpired(now) {
			continue
		}
		if opts.OnlyUnread && rec.Read {
			continue
		}
		if len(opts.Types) > 0 && !slices.Contains(opts.Types, rec.Type) {
			continue
		}
		if opts.Since != nil && !rec.CreatedAt.After(*opts.Since) {
			continue
		}
		filtered = append(filtered, *rec)
	}

	// newest first; insertion order breaks ties
	slices.Reverse(filtered)
	slices.SortStableFunc(filtered, func(a, b Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Record{}, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkAsRead(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return false, nil
	}
	rec.MarkAsRead(s.now())
	return true, nil
}

// MarkAllAsRead marks the user's unexpired unread records read. Expired
// records are left for DeleteExpired, matching CountUnread.
func (s *MemoryStorage) MarkAllAsRead(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	for _, id := range s.byUser[userID] {
		rec := s.records[id]
		if !rec.Read && !rec.IsExpired(now) {
			rec.MarkAsRead(now)
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for _, id := range s.byUser[userID] {
		rec := s.records[id]
		if !rec.Read && !rec.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) DeleteExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for userID, ids := range s.byUser {
		kept := ids[:0]
		for _, id := range ids {
			if s.records[id].IsExpired(now) {
				delete(s.records, id)
				removed++
				continue
			}
			kept = append(kept, id)
		}
		if len(kept) == 0 {
			delete(s.byUser, userID)
		} else {
			s.byUser[userID] = kept
		}
	}
	return removed, nil
}
