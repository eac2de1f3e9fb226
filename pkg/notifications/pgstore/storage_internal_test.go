package pgstore

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	since := now.Add(-time.Hour)

	t.Run("no filters", func(t *testing.T) {
		t.Parallel()
		q, args := buildListQuery("u1", notifications.ListOptions{}, now)
		assert.Equal(t, []any{"u1", now}, args)
		assert.NotContains(t, q, "LIMIT")
		assert.NotContains(t, q, "read = FALSE")
		assert.Contains(t, q, "ORDER BY created_at DESC, id DESC")
	})

	t.Run("all filters", func(t *testing.T) {
		t.Parallel()
		q, args := buildListQuery("u1", notifications.ListOptions{
			Limit:      10,
			Offset:     20,
			OnlyUnread: true,
			Types:      []notifications.Type{notifications.TypeSession, notifications.TypeReview},
			Since:      &since,
		}, now)
		assert.Equal(t, []any{"u1", now, []string{"session", "review"}, since, 10, 20}, args)
		assert.Contains(t, q, "AND read = FALSE")
		assert.Contains(t, q, "type = ANY($3)")
		assert.Contains(t, q, "created_at > $4")
		assert.Contains(t, q, "LIMIT $5")
		assert.Contains(t, q, "OFFSET $6")
	})
}

func TestRecordCodec(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := notifications.NewRecord(notifications.Request{
		UserID:      "mentor-1",
		Type:        notifications.TypeSession,
		Title:       "New Session Booked",
		Message:     "Sarah booked a session",
		Related:     &notifications.RelatedEntity{ID: "s-1", Type: "session"},
		RelatedUser: &notifications.RelatedUser{ID: "student-1", Name: "Sarah", Email: "sarah@example.com"},
		Metadata:    map[string]any{"duration": "60"},
		Channels:    []notifications.Channel{notifications.ChannelInApp, notifications.ChannelEmail},
	}, created)
	rec.ID = "n-1"

	args, err := encodeRecord(rec)
	require.NoError(t, err)
	require.Len(t, args, 17)
	assert.Equal(t, "medium", args[3])
	assert.Equal(t, []string{"in_app", "email"}, args[11])

	decoded, err := decodeRecord(
		notifications.Record{ID: "n-1", Request: notifications.Request{UserID: "mentor-1", Title: rec.Title, Message: rec.Message}, CreatedAt: created, UpdatedAt: created},
		args[2].(string), args[3].(string),
		args[6].(*string), args[7].(*string),
		args[8].([]byte), args[10].([]byte),
		args[11].([]string),
	)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestRecordCodec_Nulls(t *testing.T) {
	t.Parallel()

	args, err := encodeRecord(notifications.Record{Request: notifications.Request{UserID: "u"}})
	require.NoError(t, err)
	assert.Nil(t, args[6])
	assert.Nil(t, args[8])
	assert.Nil(t, args[10])

	rec, err := decodeRecord(notifications.Record{}, "system", "low", nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, rec.Related)
	assert.Nil(t, rec.RelatedUser)
	assert.Nil(t, rec.Metadata)
	assert.Empty(t, rec.Channels)
}

func TestPreferencesCodec(t *testing.T) {
	t.Parallel()

	p := notifications.DefaultPreferences("u1")
	p.SMSTypes.Urgent = false
	p.PushTypes.Review = false

	args, err := encodePreferences(p, time.Now())
	require.NoError(t, err)

	got, err := decodePreferences(notifications.Preferences{UserID: "u1", EmailNotifications: true, PushNotifications: true},
		args[2].([]byte), args[4].([]byte), args[6].([]byte))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(Migrations, MigrationsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
