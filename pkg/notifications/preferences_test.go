package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

func TestDefaultPreferences(t *testing.T) {
	t.Parallel()

	p := notifications.DefaultPreferences("u1")
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.EmailNotifications)
	assert.Equal(t, notifications.AllTypes(), p.EmailTypes)
	assert.False(t, p.SMSNotifications)
	assert.Equal(t, notifications.SMSBuckets{Reminders: true, Sessions: true, Urgent: true}, p.SMSTypes)
	assert.True(t, p.PushNotifications)
	assert.Equal(t, notifications.AllTypes(), p.PushTypes)
}

func TestTypeToggles_Enabled(t *testing.T) {
	t.Parallel()

	all := notifications.AllTypes()
	for _, typ := range []notifications.Type{
		notifications.TypeSession, notifications.TypePayment, notifications.TypeReminder,
		notifications.TypeReview, notifications.TypeSystem, notifications.TypeMessage,
	} {
		assert.True(t, all.Enabled(typ), typ)
		assert.False(t, notifications.TypeToggles{}.Enabled(typ), typ)
	}
	assert.False(t, all.Enabled("promo"))

	only := notifications.TypeToggles{Review: true}
	assert.True(t, only.Enabled(notifications.TypeReview))
	assert.False(t, only.Enabled(notifications.TypeSession))
}

func TestPreferences_Allows(t *testing.T) {
	t.Parallel()

	p := notifications.DefaultPreferences("u1")
	review := notifications.Request{Type: notifications.TypeReview}

	assert.True(t, p.Allows(notifications.ChannelInApp, notifications.Request{Type: "promo"}))
	assert.True(t, p.Allows(notifications.ChannelEmail, review))
	assert.True(t, p.Allows(notifications.ChannelPush, review))
	assert.False(t, p.Allows(notifications.ChannelSMS, review))
	assert.False(t, p.Allows("fax", review))

	p.SMSNotifications = true
	assert.False(t, p.Allows(notifications.ChannelSMS, review))
	assert.True(t, p.Allows(notifications.ChannelSMS, notifications.Request{Type: notifications.TypeReview, Priority: notifications.PriorityHigh}))

	p.PushNotifications = false
	assert.False(t, p.Allows(notifications.ChannelPush, review))
}

func TestPreferences_AllowsSMSSingleBucket(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	reminder := notifications.SessionReminder("u1", "Sarah", at)
	require.Equal(t, notifications.PriorityHigh, reminder.EffectivePriority())

	highSession := notifications.Request{Type: notifications.TypeSession, Priority: notifications.PriorityHigh}
	highPayment := notifications.Request{Type: notifications.TypePayment, Priority: notifications.PriorityHigh}

	tests := []struct {
		name    string
		buckets notifications.SMSBuckets
		req     notifications.Request
		want    bool
	}{
		{"reminder with reminders off and urgent on", notifications.SMSBuckets{Urgent: true}, reminder, false},
		{"reminder with reminders on and urgent off", notifications.SMSBuckets{Reminders: true}, reminder, true},
		{"high session with sessions off and urgent on", notifications.SMSBuckets{Urgent: true}, highSession, false},
		{"high session with sessions on", notifications.SMSBuckets{Sessions: true}, highSession, true},
		{"high payment uses urgent", notifications.SMSBuckets{Urgent: true}, highPayment, true},
		{"high payment ignores other buckets", notifications.SMSBuckets{Reminders: true, Sessions: true}, highPayment, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := notifications.DefaultPreferences("u1")
			p.SMSNotifications = true
			p.SMSTypes = tt.buckets
			assert.Equal(t, tt.want, p.Allows(notifications.ChannelSMS, tt.req))
		})
	}
}
