package email

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/mentorkit/pkg/email/templates"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
)

// Mailer owns the process-wide outbound mail transport.
// The transport is built and verified on first use and reused afterwards;
// a failed build or verify is not cached, so the next call starts over.
type Mailer struct {
	cfg     Config
	factory TransportFactory
	logger  *slog.Logger

	mu        sync.Mutex
	transport Transport
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger used for best-effort sends.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTransportFactory replaces the driver-based factory.
func WithTransportFactory(f TransportFactory) Option {
	return func(m *Mailer) {
		if f != nil {
			m.factory = f
		}
	}
}

// New creates a Mailer. No validation or network I/O happens until first use.
func New(cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		factory: NewTransport,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transport returns the cached transport, building and verifying it on first call.
// Configuration problems are reported as ErrInvalidConfig before the factory
// runs; build and verify failures as ErrTransportUnavailable.
func (m *Mailer) Transport(ctx context.Context) (Transport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transport != nil {
		return m.transport, nil
	}

	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	t, err := m.factory(m.cfg)
	if err != nil {
		return nil, errors.Join(ErrTransportUnavailable, err)
	}

	verifyCtx := ctx
	if m.cfg.VerifyTimeout > 0 {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, m.cfg.VerifyTimeout)
		defer cancel()
	}
	if err := t.Verify(verifyCtx); err != nil {
		return nil, errors.Join(ErrTransportUnavailable, err)
	}

	m.transport = t
	return t, nil
}

// Reset drops the cached transport; the next send builds a new one.
func (m *Mailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transport = nil
}

// Send submits an email with an HTML body and optional plain-text alternative.
func (m *Mailer) Send(ctx context.Context, to, subject, html, text string) error {
	return m.SendMessage(ctx, Message{To: to, Subject: subject, HTML: html, Text: text})
}

// SendMessage validates msg, acquires the transport and submits.
func (m *Mailer) SendMessage(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	t, err := m.Transport(ctx)
	if err != nil {
		return err
	}
	if err := t.Send(ctx, msg); err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	return nil
}

// SendTemplate renders kind with params and sends it to the given address.
// Params.AppURL defaults to the configured APP_URL.
func (m *Mailer) SendTemplate(ctx context.Context, to string, kind templates.Kind, params templates.Params) error {
	if params.AppURL == "" {
		params.AppURL = m.cfg.AppURL
	}
	if params.ProductName == "" {
		params.ProductName = m.cfg.FromName
	}
	rendered, err := templates.Render(ctx, kind, params)
	if err != nil {
		return err
	}
	return m.SendMessage(ctx, Message{
		To:      to,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
		Tag:     string(kind),
	})
}

// SendTemplateBestEffort is SendTemplate for emails whose failure must not
// fail the surrounding operation, such as a welcome email after signup.
// Errors are logged and reported as false.
func (m *Mailer) SendTemplateBestEffort(ctx context.Context, to string, kind templates.Kind, params templates.Params) bool {
	if err := m.SendTemplate(ctx, to, kind, params); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "non-critical email was not sent",
			logger.Component("mailer"),
			slog.String("kind", string(kind)),
			logger.Recipient(to),
			logger.Error(err),
		)
		return false
	}
	return true
}
