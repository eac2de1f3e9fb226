package email

import (
	"context"
	"fmt"
)

// Transport submits messages to an outbound mail relay.
type Transport interface {
	// Verify performs a round trip to the relay to prove it is reachable and
	// accepts the configured credentials.
	Verify(ctx context.Context) error

	// Send submits a single message.
	Send(ctx context.Context, msg Message) error
}

// TransportFactory builds a Transport from validated configuration.
// It must not perform network I/O; connectivity is checked by Verify.
type TransportFactory func(cfg Config) (Transport, error)

// NewTransport is the default factory, selecting the implementation by cfg.Driver.
func NewTransport(cfg Config) (Transport, error) {
	switch cfg.driver() {
	case DriverSMTP:
		return newSMTPTransport(cfg), nil
	case DriverPostmark:
		return newPostmarkTransport(cfg), nil
	case DriverDev:
		return newDevTransport(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown MAIL_DRIVER %q", ErrInvalidConfig, cfg.Driver)
	}
}
