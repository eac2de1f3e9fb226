package notifications_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/email/templates"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendTemplate(ctx context.Context, to string, kind templates.Kind, params templates.Params) error {
	return m.Called(ctx, to, kind, params).Error(0)
}

type staticDirectory map[string]string

func (d staticDirectory) EmailOf(_ context.Context, userID string) (string, error) {
	if addr, ok := d[userID]; ok {
		return addr, nil
	}
	return "", errors.New("user not found")
}

func bookedRecord() notifications.Record {
	return notifications.Record{
		ID: "n-1",
		Request: notifications.Request{
			UserID:      "mentor-1",
			Type:        notifications.TypeSession,
			Title:       "New Session Booked",
			Message:     "Sarah booked a session",
			ActionURL:   "/dashboard/sessions",
			RelatedUser: &notifications.RelatedUser{ID: "student-1", Name: "Sarah", Email: "sarah@example.com"},
		},
	}
}

func TestEmailSender_DefaultResolver(t *testing.T) {
	t.Parallel()

	m := new(MockMailer)
	m.On("SendTemplate", mock.Anything, "sarah@example.com", templates.KindNotification, templates.Params{
		Title:     "New Session Booked",
		Message:   "Sarah booked a session",
		ActionURL: "/dashboard/sessions",
	}).Return(nil).Once()

	require.NoError(t, notifications.NewEmailSender(m).Send(context.Background(), bookedRecord()))
	m.AssertExpectations(t)
}

func TestEmailSender_OwnerResolver(t *testing.T) {
	t.Parallel()

	m := new(MockMailer)
	m.On("SendTemplate", mock.Anything, "mentor@example.com", templates.KindNotification, mock.Anything).Return(nil).Once()

	s := notifications.NewEmailSender(m, notifications.WithAddressResolver(
		notifications.OwnerAddress(staticDirectory{"mentor-1": "mentor@example.com"}),
	))
	require.NoError(t, s.Send(context.Background(), bookedRecord()))
	m.AssertExpectations(t)
}

func TestEmailSender_NoRecipient(t *testing.T) {
	t.Parallel()

	m := new(MockMailer)
	rec := bookedRecord()
	rec.RelatedUser = nil

	err := notifications.NewEmailSender(m).Send(context.Background(), rec)
	assert.ErrorIs(t, err, notifications.ErrNoRecipient)
	m.AssertNotCalled(t, "SendTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFirstAddress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := notifications.OwnerAddress(staticDirectory{"mentor-1": "mentor@example.com"})
	related := notifications.RelatedUserAddress()

	addr, err := notifications.FirstAddress(owner, related).ResolveAddress(ctx, bookedRecord())
	require.NoError(t, err)
	assert.Equal(t, "mentor@example.com", addr)

	unknownOwner := bookedRecord()
	unknownOwner.UserID = "ghost"
	addr, err = notifications.FirstAddress(owner, related).ResolveAddress(ctx, unknownOwner)
	require.NoError(t, err)
	assert.Equal(t, "sarah@example.com", addr)

	unknownOwner.RelatedUser = nil
	addr, err = notifications.FirstAddress(owner, related).ResolveAddress(ctx, unknownOwner)
	assert.ErrorIs(t, err, notifications.ErrNoRecipient)
	assert.Empty(t, addr)

	addr, err = notifications.FirstAddress(related).ResolveAddress(ctx, unknownOwner)
	assert.NoError(t, err)
	assert.Empty(t, addr)
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	s := notifications.NewLogSender(notifications.ChannelSMS, logger.New(logger.WithOutput(buf)))
	require.NoError(t, s.Send(context.Background(), bookedRecord()))
	assert.Contains(t, buf.String(), "sms notification delivered (stub)")
	assert.Contains(t, buf.String(), "n-1")
}

func TestSenderFunc(t *testing.T) {
	t.Parallel()

	called := false
	var s notifications.ChannelSender = notifications.SenderFunc(func(context.Context, notifications.Record) error {
		called = true
		return nil
	})
	require.NoError(t, s.Send(context.Background(), notifications.Record{}))
	assert.True(t, called)
}
