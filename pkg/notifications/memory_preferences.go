package notifications

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryPreferenceStore is an in-memory PreferenceStore.
type MemoryPreferenceStore struct {
	prefs map[string]Preferences
	mu    sync.Mutex
}

// NewMemoryPreferenceStore creates an empty store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]Preferences)}
}

func (s *MemoryPreferenceStore) GetOrCreate(_ context.Context, userID string) (Preferences, error) {
	if userID == "" {
		return Preferences{}, errors.New("user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	p := DefaultPreferences(userID)
	p.UpdatedAt = time.Now()
	s.prefs[userID] = p
	return p, nil
}

func (s *MemoryPreferenceStore) Update(_ context.Context, prefs Preferences) error {
	if prefs.UserID == "" {
		return errors.New("user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs.UpdatedAt = time.Now()
	s.prefs[prefs.UserID] = prefs
	return nil
}
