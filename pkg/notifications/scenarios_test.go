package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

func TestScenarios(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		req       notifications.Request
		typ       notifications.Type
		priority  notifications.Priority
		channels  []notifications.Channel
		actionURL string
		contains  []string
	}{
		{
			name:      "session booked",
			req:       notifications.SessionBooked("mentor-1", "Sarah", at),
			typ:       notifications.TypeSession,
			priority:  notifications.PriorityMedium,
			channels:  []notifications.Channel{notifications.ChannelInApp, notifications.ChannelEmail},
			actionURL: "/dashboard/sessions",
			contains:  []string{"Sarah", "Wednesday, May 1, 2024 at 10:00 AM UTC"},
		},
		{
			name:      "payment received",
			req:       notifications.PaymentReceived("mentor-1", 1500, "usd", "Sarah"),
			typ:       notifications.TypePayment,
			priority:  notifications.PriorityMedium,
			channels:  []notifications.Channel{notifications.ChannelInApp, notifications.ChannelEmail},
			actionURL: "/dashboard/earnings",
			contains:  []string{"Sarah", "$1,500.00"},
		},
		{
			name:      "session reminder",
			req:       notifications.SessionReminder("student-1", "Alex", at),
			typ:       notifications.TypeReminder,
			priority:  notifications.PriorityHigh,
			channels:  []notifications.Channel{notifications.ChannelInApp, notifications.ChannelEmail, notifications.ChannelPush},
			actionURL: "/dashboard/calendar",
			contains:  []string{"Alex", "Wednesday, May 1, 2024 at 10:00 AM UTC"},
		},
		{
			name:      "new review",
			req:       notifications.NewReview("mentor-1", "Sarah", 5),
			typ:       notifications.TypeReview,
			priority:  notifications.PriorityLow,
			channels:  []notifications.Channel{notifications.ChannelInApp, notifications.ChannelEmail},
			actionURL: "/dashboard/reviews",
			contains:  []string{"Sarah", "5-star"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.typ, tt.req.Type)
			assert.Equal(t, tt.priority, tt.req.Priority)
			assert.Equal(t, tt.channels, tt.req.Channels)
			assert.Equal(t, tt.actionURL, tt.req.ActionURL)
			for _, s := range tt.contains {
				assert.Contains(t, tt.req.Message, s)
			}
			assert.NoError(t, tt.req.Validate())
		})
	}
}

func TestScenarioOptions(t *testing.T) {
	t.Parallel()

	req := notifications.SessionBooked("mentor-1", "Sarah", time.Now(),
		notifications.WithRelated("session", "s-1"),
		notifications.WithRelatedUser(notifications.RelatedUser{ID: "student-1", Name: "Sarah", Email: "sarah@example.com"}),
		notifications.WithMetadata(map[string]any{"duration": 60}),
	)
	require.NotNil(t, req.Related)
	assert.Equal(t, "session:s-1", req.Related.String())
	require.NotNil(t, req.RelatedUser)
	assert.Equal(t, "sarah@example.com", req.RelatedUser.Email)
	assert.Equal(t, 60, req.Metadata["duration"])
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{50, "USD", "$50.00"},
		{12.5, "eur", "€12.50"},
		{1234.5, "USD", "$1,234.50"},
		{20, "CHF", "CHF 20.00"},
		{20, "", "20.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, notifications.FormatAmount(tt.amount, tt.currency))
	}
}

func TestDispatcher_ScenarioMethods(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	r1, err := f.d.NotifySessionBooked(ctx, "mentor-1", "Sarah", at)
	require.NoError(t, err)
	assert.Equal(t, notifications.StatusDelivered, r1.Status(notifications.ChannelEmail))

	r2, err := f.d.NotifySessionReminder(ctx, "mentor-1", "Sarah", at)
	require.NoError(t, err)
	assert.Equal(t, notifications.StatusDelivered, r2.Status(notifications.ChannelPush))

	_, err = f.d.NotifyPaymentReceived(ctx, "mentor-1", 50, "USD", "Sarah")
	require.NoError(t, err)
	_, err = f.d.NotifyNewReview(ctx, "mentor-1", "Sarah", 4)
	require.NoError(t, err)

	count, err := f.d.CountUnread(ctx, "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, 4, f.email.calls())
}
