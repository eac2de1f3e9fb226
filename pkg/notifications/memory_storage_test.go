package notifications_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

func newRecord(userID string, typ notifications.Type, created time.Time) notifications.Record {
	return notifications.NewRecord(notifications.Request{
		UserID: userID, Type: typ, Title: "t", Message: "m",
	}, created)
}

func TestMemoryStorage_CreateAndGet(t *testing.T) {
	t.Parallel()

	s := notifications.NewMemoryStorage()
	ctx := context.Background()

	id, err := s.Create(ctx, newRecord("u1", notifications.TypeSystem, time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "u1", rec.UserID)

	rec.Title = "mutated"
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "t", again.Title)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)

	_, err = s.Create(ctx, notifications.Record{})
	assert.Error(t, err)

	dup := newRecord("u1", notifications.TypeSystem, time.Now())
	dup.ID = id
	_, err = s.Create(ctx, dup)
	assert.Error(t, err)
}

func TestMemoryStorage_List(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := notifications.NewMemoryStorage().WithClock(func() time.Time { return now })
	ctx := context.Background()

	var ids []string
	for i, typ := range []notifications.Type{
		notifications.TypeSession, notifications.TypePayment, notifications.TypeSession, notifications.TypeReview,
	} {
		id, err := s.Create(ctx, newRecord("u1", typ, now.Add(time.Duration(i-4)*time.Hour)))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	expired := newRecord("u1", notifications.TypeSystem, now.Add(-48*time.Hour))
	past := now.Add(-time.Hour)
	expired.ExpiresAt = &past
	_, err := s.Create(ctx, expired)
	require.NoError(t, err)

	_, err = s.MarkAsRead(ctx, ids[1])
	require.NoError(t, err)

	all, err := s.List(ctx, "u1", notifications.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{ids[3], ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID, all[3].ID})

	unread, err := s.List(ctx, "u1", notifications.ListOptions{OnlyUnread: true})
	require.NoError(t, err)
	assert.Len(t, unread, 3)

	sessions, err := s.List(ctx, "u1", notifications.ListOptions{Types: []notifications.Type{notifications.TypeSession}})
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	since := now.Add(-3 * time.Hour)
	recent, err := s.List(ctx, "u1", notifications.ListOptions{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	page, err := s.List(ctx, "u1", notifications.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)

	beyond, err := s.List(ctx, "u1", notifications.ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	none, err := s.List(ctx, "nobody", notifications.ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStorage_ReadState(t *testing.T) {
	t.Parallel()

	s := notifications.NewMemoryStorage()
	ctx := context.Background()

	for range 3 {
		_, err := s.Create(ctx, newRecord("u1", notifications.TypeSystem, time.Now()))
		require.NoError(t, err)
	}

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	n, err := s.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err = s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	ok, err := s.MarkAsRead(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStorage_MarkAllAsReadMatchesUnreadCount(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := notifications.NewMemoryStorage().WithClock(func() time.Time { return now })
	ctx := context.Background()

	for range 2 {
		_, err := s.Create(ctx, newRecord("u1", notifications.TypeSystem, now))
		require.NoError(t, err)
	}
	past := now.Add(-time.Minute)
	stale := newRecord("u1", notifications.TypeSystem, now.Add(-time.Hour))
	stale.ExpiresAt = &past
	staleID, err := s.Create(ctx, stale)
	require.NoError(t, err)

	before, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, before)

	n, err := s.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, n)

	after, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, after)

	got, err := s.Get(ctx, staleID)
	require.NoError(t, err)
	assert.False(t, got.Read, "expired records are left for the sweep")
}

func TestMemoryStorage_DeleteExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := notifications.NewMemoryStorage().WithClock(func() time.Time { return now })
	ctx := context.Background()

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	old := newRecord("u1", notifications.TypeSystem, now.Add(-time.Hour))
	old.ExpiresAt = &past
	oldID, err := s.Create(ctx, old)
	require.NoError(t, err)

	fresh := newRecord("u1", notifications.TypeSystem, now)
	fresh.ExpiresAt = &future
	_, err = s.Create(ctx, fresh)
	require.NoError(t, err)

	forever := newRecord("u2", notifications.TypeSystem, now)
	_, err = s.Create(ctx, forever)
	require.NoError(t, err)

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "expired records are not counted")

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, oldID)
	assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)

	n, err = s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryStorage_Concurrent(t *testing.T) {
	t.Parallel()

	s := notifications.NewMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.Create(ctx, newRecord("u1", notifications.TypeSystem, time.Now()))
			if err == nil {
				_, _ = s.MarkAsRead(ctx, id)
			}
			_, _ = s.CountUnread(ctx, "u1")
		}()
	}
	wg.Wait()

	list, err := s.List(ctx, "u1", notifications.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list, 20)
}
