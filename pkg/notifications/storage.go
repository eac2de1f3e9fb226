package notifications

import (
	"context"
	"time"
)

// Storage persists in-app notification records.
type Storage interface {
	// Create stores a new record and returns its assigned ID.
	Create(ctx context.Context, rec Record) (string, error)

	// Get returns a record by ID or ErrNotificationNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns a user's unexpired records, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Record, error)

	// MarkAsRead marks one record read. It returns false when the ID is unknown
	// and true for an already read record, whose ReadAt is left untouched.
	MarkAsRead(ctx context.Context, id string) (bool, error)

	// MarkAllAsRead marks every unread, unexpired record of a user and returns
	// how many changed. It uses the same filter as CountUnread.
	MarkAllAsRead(ctx context.Context, userID string) (int, error)

	// CountUnread returns the number of unread, unexpired records of a user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// DeleteExpired removes records past their expiry and returns how many were removed.
	DeleteExpired(ctx context.Context) (int, error)
}

// ListOptions filters and paginates List.
type ListOptions struct {
	Limit      int        // 0 = no limit
	Offset     int
	OnlyUnread bool
	Types      []Type     // empty = all types
	Since      *time.Time // only records created after this time
}

// PreferenceStore persists user delivery preferences.
type PreferenceStore interface {
	// GetOrCreate returns the user's preferences, storing defaults on first access.
	GetOrCreate(ctx context.Context, userID string) (Preferences, error)

	// Update replaces the user's preferences.
	Update(ctx context.Context, prefs Preferences) error
}
