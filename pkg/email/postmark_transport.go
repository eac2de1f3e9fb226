package email

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkTransport struct {
	client *postmark.Client
	cfg    Config
}

func newPostmarkTransport(cfg Config) *postmarkTransport {
	return &postmarkTransport{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:    cfg,
	}
}

// Verify fetches the server bound to the token, which fails on bad credentials
// or when the API is unreachable.
func (t *postmarkTransport) Verify(ctx context.Context) error {
	if _, err := t.client.GetCurrentServer(ctx); err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	return nil
}

// Send uses Postmark's transactional API. Opens and HTML link clicks are tracked;
// replies go to the support address when one is configured.
func (t *postmarkTransport) Send(ctx context.Context, msg Message) error {
	from := t.cfg.Sender()
	if t.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", t.cfg.FromName, from)
	}

	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:       from,
		ReplyTo:    t.cfg.SupportEmail,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTML,
		TextBody:   msg.Text,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return err
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
