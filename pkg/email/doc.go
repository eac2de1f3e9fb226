// Package email sends transactional mail through a lazily initialised,
// process-wide transport.
//
// A Mailer is created from Config without touching the network. On the first
// send it validates the configuration for the selected driver, builds the
// Transport and verifies it with a round trip to the relay, bounded by
// Config.VerifyTimeout. The verified transport is cached and shared by all
// callers; concurrent first sends block on the same initialisation, so the
// relay sees a single verify handshake. A failed build or verify is reported
// as ErrTransportUnavailable and is not cached.
//
// Drivers:
//   - smtp: authenticated SMTP with STARTTLS when offered, or implicit TLS
//     when SMTP_SECURE is set
//   - postmark: Postmark transactional API
//   - dev: writes each message to MAIL_DEV_DIR as .html, .txt and .json files
//
// # Usage
//
//	var cfg email.Config
//	config.MustLoad(&cfg)
//
//	mailer := email.New(cfg, email.WithLogger(log))
//	err := mailer.SendTemplate(ctx, "sarah@example.com", templates.KindPasswordReset, templates.Params{
//	    RecipientName: "Sarah",
//	    Token:         token,
//	})
//
// Emails that must not fail the surrounding operation go through
// SendTemplateBestEffort, which logs the error and returns false.
//
// # Errors
//
//   - ErrInvalidConfig: a required setting for the driver is missing
//   - ErrInvalidMessage: recipient, subject or body failed validation
//   - ErrTransportUnavailable: the transport could not be built or verified
//   - ErrFailedToSend: the relay rejected the message
package email
