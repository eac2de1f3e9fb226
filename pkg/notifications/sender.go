package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mentorkit/pkg/email/templates"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
)

// ChannelSender delivers a persisted record over one channel.
type ChannelSender interface {
	Send(ctx context.Context, rec Record) error
}

// SenderFunc adapts a function to ChannelSender.
type SenderFunc func(ctx context.Context, rec Record) error

func (f SenderFunc) Send(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// TemplateMailer renders and sends a templated email. *email.Mailer implements it.
type TemplateMailer interface {
	SendTemplate(ctx context.Context, to string, kind templates.Kind, params templates.Params) error
}

// EmailSender delivers records as the generic notification email.
type EmailSender struct {
	mailer  TemplateMailer
	resolve AddressResolver
}

// EmailSenderOption configures an EmailSender.
type EmailSenderOption func(*EmailSender)

// WithAddressResolver sets how the recipient address is found.
// The default is RelatedUserAddress.
func WithAddressResolver(r AddressResolver) EmailSenderOption {
	return func(s *EmailSender) {
		if r != nil {
			s.resolve = r
		}
	}
}

// NewEmailSender creates an email channel sender.
func NewEmailSender(mailer TemplateMailer, opts ...EmailSenderOption) *EmailSender {
	s := &EmailSender{
		mailer:  mailer,
		resolve: RelatedUserAddress(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EmailSender) Send(ctx context.Context, rec Record) error {
	to, err := s.resolve.ResolveAddress(ctx, rec)
	if err != nil {
		return err
	}
	if to == "" {
		return ErrNoRecipient
	}
	return s.mailer.SendTemplate(ctx, to, templates.KindNotification, templates.Params{
		Title:     rec.Title,
		Message:   rec.Message,
		ActionURL: rec.ActionURL,
	})
}

// LogSender is a stub channel that logs the record and reports success.
// It stands in for gateways that are not integrated yet, such as SMS and push.
type LogSender struct {
	channel Channel
	logger  *slog.Logger
}

// NewLogSender creates a stub sender for channel.
func NewLogSender(channel Channel, l *slog.Logger) *LogSender {
	if l == nil {
		l = slog.Default()
	}
	return &LogSender{channel: channel, logger: l}
}

func (s *LogSender) Send(ctx context.Context, rec Record) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf("%s notification delivered (stub)", s.channel),
		logger.Channel(string(s.channel)),
		logger.NotificationID(rec.ID),
		logger.UserID(rec.UserID),
		logger.NotificationType(string(rec.Type)),
		slog.String("title", rec.Title),
	)
	return nil
}
