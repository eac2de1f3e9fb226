package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
	"github.com/dmitrymomot/mentorkit/pkg/pg"
)

const preferenceColumns = `user_id, email_notifications, email_types, sms_notifications, sms_types,
	push_notifications, push_types, updated_at`

// PreferenceStore is a notifications.PreferenceStore backed by the
// notification_preferences table.
type PreferenceStore struct {
	db  DB
	now func() time.Time
}

// NewPreferenceStore creates a preference store on db.
func NewPreferenceStore(db DB) *PreferenceStore {
	return &PreferenceStore{db: db, now: time.Now}
}

// GetOrCreate reads the row, inserting defaults first when it does not exist.
// Concurrent first reads are resolved by ON CONFLICT DO NOTHING.
func (s *PreferenceStore) GetOrCreate(ctx context.Context, userID string) (notifications.Preferences, error) {
	if userID == "" {
		return notifications.Preferences{}, errors.New("user ID is required")
	}

	p, err := s.get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !pg.IsNotFoundError(err) {
		return notifications.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	if err := s.upsert(ctx, notifications.DefaultPreferences(userID), false); err != nil {
		return notifications.Preferences{}, err
	}
	p, err = s.get(ctx, userID)
	if err != nil {
		return notifications.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// Update replaces the user's preferences, creating the row when needed.
func (s *PreferenceStore) Update(ctx context.Context, prefs notifications.Preferences) error {
	if prefs.UserID == "" {
		return errors.New("user ID is required")
	}
	return s.upsert(ctx, prefs, true)
}

func (s *PreferenceStore) get(ctx context.Context, userID string) (notifications.Preferences, error) {
	var p notifications.Preferences
	var emailTypes, smsTypes, pushTypes []byte
	err := s.db.QueryRow(ctx, `SELECT `+preferenceColumns+` FROM notification_preferences WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.EmailNotifications, &emailTypes, &p.SMSNotifications, &smsTypes,
		&p.PushNotifications, &pushTypes, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	return decodePreferences(p, emailTypes, smsTypes, pushTypes)
}

func (s *PreferenceStore) upsert(ctx context.Context, p notifications.Preferences, overwrite bool) error {
	args, err := encodePreferences(p, s.now())
	if err != nil {
		return err
	}

	conflict := `DO NOTHING`
	if overwrite {
		conflict = `DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			email_types = EXCLUDED.email_types,
			sms_notifications = EXCLUDED.sms_notifications,
			sms_types = EXCLUDED.sms_types,
			push_notifications = EXCLUDED.push_notifications,
			push_types = EXCLUDED.push_types,
			updated_at = EXCLUDED.updated_at`
	}

	_, err = s.db.Exec(ctx, `INSERT INTO notification_preferences (`+preferenceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) `+conflict, args...)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func encodePreferences(p notifications.Preferences, now time.Time) ([]any, error) {
	emailTypes, err := json.Marshal(p.EmailTypes)
	if err != nil {
		return nil, fmt.Errorf("encode email types: %w", err)
	}
	smsTypes, err := json.Marshal(p.SMSTypes)
	if err != nil {
		return nil, fmt.Errorf("encode sms types: %w", err)
	}
	pushTypes, err := json.Marshal(p.PushTypes)
	if err != nil {
		return nil, fmt.Errorf("encode push types: %w", err)
	}
	return []any{
		p.UserID, p.EmailNotifications, emailTypes, p.SMSNotifications, smsTypes,
		p.PushNotifications, pushTypes, now,
	}, nil
}

func decodePreferences(p notifications.Preferences, emailTypes, smsTypes, pushTypes []byte) (notifications.Preferences, error) {
	if err := json.Unmarshal(emailTypes, &p.EmailTypes); err != nil {
		return p, fmt.Errorf("decode email types: %w", err)
	}
	if err := json.Unmarshal(smsTypes, &p.SMSTypes); err != nil {
		return p, fmt.Errorf("decode sms types: %w", err)
	}
	if err := json.Unmarshal(pushTypes, &p.PushTypes); err != nil {
		return p, fmt.Errorf("decode push types: %w", err)
	}
	return p, nil
}
