package email

import (
	"fmt"
	"strings"
	"time"
)

// Driver selects the outbound mail transport.
type Driver string

const (
	DriverSMTP     Driver = "smtp"
	DriverPostmark Driver = "postmark"
	DriverDev      Driver = "dev"
)

// Config holds mail relay configuration, populated from the environment.
// Required fields depend on Driver and are checked by Validate on first use,
// not at parse time, so a service can boot without mail configured.
type Config struct {
	Driver Driver `env:"MAIL_DRIVER" envDefault:"smtp"`

	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Secure   bool   `env:"SMTP_SECURE" envDefault:"false"` // implicit TLS (usually port 465)
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	DevDir string `env:"MAIL_DEV_DIR" envDefault:"./tmp/emails"`

	FromAddress   string        `env:"MAIL_FROM_ADDRESS"`
	FromName      string        `env:"MAIL_FROM_NAME" envDefault:"Mentorly"`
	SupportEmail  string        `env:"SUPPORT_EMAIL"`
	AppURL        string        `env:"APP_URL" envDefault:"http://localhost:3000"`
	VerifyTimeout time.Duration `env:"MAIL_VERIFY_TIMEOUT" envDefault:"10s"`
}

// Sender returns the envelope sender, falling back to the SMTP username.
func (c Config) Sender() string {
	if c.FromAddress != "" {
		return c.FromAddress
	}
	return c.Username
}

// Validate reports the first missing or malformed setting for the selected driver.
func (c Config) Validate() error {
	switch c.driver() {
	case DriverSMTP:
		if strings.TrimSpace(c.Host) == "" {
			return fmt.Errorf("%w: SMTP_HOST is required", ErrInvalidConfig)
		}
		if c.Username == "" {
			return fmt.Errorf("%w: SMTP_USER is required", ErrInvalidConfig)
		}
		if c.Password == "" {
			return fmt.Errorf("%w: SMTP_PASSWORD is required", ErrInvalidConfig)
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("%w: SMTP_PORT %d is out of range", ErrInvalidConfig, c.Port)
		}
	case DriverPostmark:
		if c.PostmarkServerToken == "" {
			return fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrInvalidConfig)
		}
		if c.PostmarkAccountToken == "" {
			return fmt.Errorf("%w: POSTMARK_ACCOUNT_TOKEN is required", ErrInvalidConfig)
		}
		if c.FromAddress == "" {
			return fmt.Errorf("%w: MAIL_FROM_ADDRESS is required", ErrInvalidConfig)
		}
	case DriverDev:
		if c.DevDir == "" {
			return fmt.Errorf("%w: MAIL_DEV_DIR is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown MAIL_DRIVER %q", ErrInvalidConfig, c.Driver)
	}

	if sender := c.Sender(); !emailRegex.MatchString(sender) {
		return fmt.Errorf("%w: sender address %q is not a valid email address", ErrInvalidConfig, sender)
	}
	if c.SupportEmail != "" && !emailRegex.MatchString(c.SupportEmail) {
		return fmt.Errorf("%w: SUPPORT_EMAIL must be a valid email address", ErrInvalidConfig)
	}
	return nil
}

func (c Config) driver() Driver {
	if c.Driver == "" {
		return DriverSMTP
	}
	return c.Driver
}
