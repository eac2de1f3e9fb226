package notifications

import "errors"

var (
	ErrInvalidRequest       = errors.New("notifications: invalid request")
	ErrPersistFailed        = errors.New("notifications: failed to persist in-app record")
	ErrPreferencesFailed    = errors.New("notifications: failed to load preferences")
	ErrNotificationNotFound = errors.New("notifications: notification not found")
	ErrNoRecipient          = errors.New("notifications: no delivery address")
	ErrChannelPanic         = errors.New("notifications: channel sender panicked")
)
