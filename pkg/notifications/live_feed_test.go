package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

func TestLiveFeed(t *testing.T) {
	t.Parallel()

	feed := notifications.NewLiveFeed(4, 10)
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := feed.Subscribe(ctx, "mentor-1")
	f := newFixture(t, notifications.WithPublisher(feed))

	report, err := f.d.Send(context.Background(), request())
	require.NoError(t, err)
	_, err = f.d.Send(context.Background(), notifications.Request{UserID: "other", Type: notifications.TypeSystem, Title: "t", Message: "m"})
	require.NoError(t, err)

	select {
	case rec := <-sub.C():
		assert.Equal(t, report.NotificationID, rec.ID)
	case <-time.After(time.Second):
		t.Fatal("record was not published")
	}
	assert.Empty(t, sub.C(), "other users' records are not delivered")
}

func TestLiveFeed_EvictionClosesSubscriptions(t *testing.T) {
	t.Parallel()

	feed := notifications.NewLiveFeed(1, 1)
	defer feed.Close()

	first := feed.Subscribe(context.Background(), "u1")
	feed.Subscribe(context.Background(), "u2")

	_, open := <-first.C()
	assert.False(t, open)
}

func TestLiveFeed_PublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	feed := notifications.NewLiveFeed(1, 1)
	defer feed.Close()
	assert.NoError(t, feed.Publish(context.Background(), notifications.Record{ID: "n", Request: notifications.Request{UserID: "u"}}))
}
