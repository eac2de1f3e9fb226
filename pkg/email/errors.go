package email

import "errors"

var (
	ErrInvalidConfig        = errors.New("mailer.errors.invalid_config")
	ErrTransportUnavailable = errors.New("mailer.errors.transport_unavailable")
	ErrInvalidMessage       = errors.New("mailer.errors.invalid_message")
	ErrFailedToSend         = errors.New("mailer.errors.failed_to_send_email")
)
