package email

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Message is a single outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"` // optional plain-text alternative
	Tag     string `json:"tag,omitempty"`  // template kind, used for analytics and dev file names
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	to := strings.TrimSpace(m.To)
	if to == "" {
		return fmt.Errorf("%w: To is required", ErrInvalidMessage)
	}
	if !emailRegex.MatchString(to) {
		return fmt.Errorf("%w: To must be a valid email address", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.HTML) == "" {
		return fmt.Errorf("%w: HTML body is required", ErrInvalidMessage)
	}
	return nil
}

// ValidAddress reports whether addr looks like a deliverable email address.
func ValidAddress(addr string) bool {
	return emailRegex.MatchString(strings.TrimSpace(addr))
}
