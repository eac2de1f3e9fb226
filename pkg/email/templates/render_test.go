package templates_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/email/templates"
)

const appURL = "https://mentorly.example"

func TestRender_AllKinds(t *testing.T) {
	t.Parallel()

	params := templates.Params{
		AppURL:        appURL,
		ProductName:   "Mentorly",
		RecipientName: "Sarah",
		Title:         "New Session Booked",
		Message:       "Alex booked a session",
		ActionURL:     "/dashboard/sessions",
		Token:         "tok123",
		Code:          "482913",
		SenderName:    "Alex",
		SenderEmail:   "alex@example.com",
		TicketID:      "T-1",
		Category:      "billing",
		Subject:       "Refund",
	}

	for _, kind := range templates.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			out, err := templates.Render(context.Background(), kind, params)
			require.NoError(t, err)
			assert.NotEmpty(t, out.Subject)
			assert.Contains(t, out.HTML, "<!DOCTYPE html>")
			assert.Contains(t, out.HTML, "Mentorly")
			assert.NotEmpty(t, out.Text)
		})
	}
}

func TestRender_Notification(t *testing.T) {
	t.Parallel()

	out, err := templates.Render(context.Background(), templates.KindNotification, templates.Params{
		AppURL:    appURL,
		Title:     "Payment Received",
		Message:   "You received $50.00 from <b>Sam</b>",
		ActionURL: "/dashboard/earnings",
	})
	require.NoError(t, err)

	assert.Equal(t, "Payment Received", out.Subject)
	assert.Contains(t, out.HTML, appURL+"/dashboard/earnings")
	assert.Contains(t, out.HTML, "&lt;b&gt;Sam&lt;/b&gt;")
	assert.NotContains(t, out.HTML, "<b>Sam</b>")
	assert.Contains(t, out.Text, "You received $50.00 from <b>Sam</b>")
	assert.Contains(t, out.Text, appURL+"/dashboard/earnings")
	assert.Contains(t, out.Text, "Hi there,")
}

func TestRender_NotificationWithoutAction(t *testing.T) {
	t.Parallel()

	out, err := templates.Render(context.Background(), templates.KindNotification, templates.Params{
		AppURL:  appURL,
		Title:   "System update",
		Message: "Scheduled maintenance tonight",
	})
	require.NoError(t, err)
	assert.NotContains(t, out.HTML, "View details")
	assert.NotContains(t, out.Text, "View details")
}

func TestRender_LinksAndCodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	verify, err := templates.Render(ctx, templates.KindEmailVerification, templates.Params{AppURL: appURL, Token: "abc"})
	require.NoError(t, err)
	assert.Contains(t, verify.Text, appURL+"/verify-email?token=abc")

	reset, err := templates.Render(ctx, templates.KindPasswordReset, templates.Params{AppURL: appURL, Token: "xyz", ExpiresIn: 30 * time.Minute})
	require.NoError(t, err)
	assert.Contains(t, reset.Text, appURL+"/reset-password?token=xyz")
	assert.Contains(t, reset.Text, "30 minutes")

	otp, err := templates.Render(ctx, templates.KindOTP, templates.Params{AppURL: appURL, Code: "123456"})
	require.NoError(t, err)
	assert.Contains(t, otp.HTML, "123456")
	assert.Contains(t, otp.Text, "10 minutes")

	ticket, err := templates.Render(ctx, templates.KindSupportTicketInternal, templates.Params{TicketID: "42", Subject: "Login issue"})
	require.NoError(t, err)
	assert.Equal(t, "[Support #42] Login issue", ticket.Subject)
}

func TestRender_MentorMessageSubject(t *testing.T) {
	t.Parallel()

	out, err := templates.Render(context.Background(), templates.KindMentorMessage, templates.Params{SenderName: "Dana", Message: "See you soon"})
	require.NoError(t, err)
	assert.Equal(t, "New message from Dana", out.Subject)

	out, err = templates.Render(context.Background(), templates.KindMentorMessage, templates.Params{SenderName: "Dana", Subject: "Homework"})
	require.NoError(t, err)
	assert.Equal(t, "Homework", out.Subject)
}

func TestRender_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := templates.Render(context.Background(), templates.Kind("nope"), templates.Params{})
	assert.ErrorIs(t, err, templates.ErrUnknownKind)
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, path, want string
	}{
		{"https://a.io", "/x", "https://a.io/x"},
		{"https://a.io/", "x", "https://a.io/x"},
		{"https://a.io", "", "https://a.io"},
		{"https://a.io", "https://b.io/y", "https://b.io/y"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, templates.AbsoluteURL(tt.base, tt.path))
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>body</p>")
		return err
	})

	t.Run("escapes product name", func(t *testing.T) {
		t.Parallel()

		out, err := templates.RenderComponent(context.Background(),
			templates.Layout(templates.Params{AppURL: appURL, ProductName: `<b>Mentor & Co</b>`}, body))
		require.NoError(t, err)
		assert.Contains(t, out, "&lt;b&gt;Mentor &amp; Co&lt;/b&gt;")
		assert.NotContains(t, out, "<b>Mentor")
		assert.Contains(t, out, "<p>body</p>")
		assert.Contains(t, out, `href="https://mentorly.example/settings/notifications"`)
	})

	t.Run("rejects unsafe app url", func(t *testing.T) {
		t.Parallel()

		out, err := templates.RenderComponent(context.Background(),
			templates.Layout(templates.Params{AppURL: "javascript:alert(1)", ProductName: "Mentorly"}, body))
		require.NoError(t, err)
		assert.NotContains(t, out, "javascript:")
	})
}
