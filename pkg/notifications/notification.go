package notifications

import (
	"fmt"
	"strings"
	"time"
)

// Type is the business category of a notification.
type Type string

const (
	TypeSession  Type = "session"
	TypePayment  Type = "payment"
	TypeReminder Type = "reminder"
	TypeReview   Type = "review"
	TypeSystem   Type = "system"
	TypeMessage  Type = "message"
)

// Known reports whether t is one of the defined types.
// Unknown types are stored but never pass a channel gate.
func (t Type) Known() bool {
	switch t {
	case TypeSession, TypePayment, TypeReminder, TypeReview, TypeSystem, TypeMessage:
		return true
	}
	return false
}

// Priority of a notification.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a defined priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Channel is a delivery mechanism.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Valid reports whether c is a defined channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush:
		return true
	}
	return false
}

// RelatedEntity points at the business object a notification is about.
type RelatedEntity struct {
	ID   string `json:"id"`
	Type string `json:"type"` // session, payment, review, message
}

func (e RelatedEntity) String() string {
	return e.Type + ":" + e.ID
}

// RelatedUser is a snapshot of the counterpart user at send time.
type RelatedUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Request describes one notification to dispatch.
type Request struct {
	UserID      string         `json:"user_id"`
	Type        Type           `json:"type"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Priority    Priority       `json:"priority,omitempty"`
	Related     *RelatedEntity `json:"related,omitempty"`
	RelatedUser *RelatedUser   `json:"related_user,omitempty"`
	ActionURL   string         `json:"action_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Channels    []Channel      `json:"channels,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
}

// Validate checks required fields and enum values. Type is not checked
// against the known set.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.UserID) == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	case strings.TrimSpace(string(r.Type)) == "":
		return fmt.Errorf("%w: type is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Message) == "":
		return fmt.Errorf("%w: message is required", ErrInvalidRequest)
	case r.Priority != "" && !r.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, r.Priority)
	}
	for _, c := range r.Channels {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown channel %q", ErrInvalidRequest, c)
		}
	}
	return nil
}

// EffectivePriority returns the priority with the medium default applied.
func (r Request) EffectivePriority() Priority {
	if r.Priority == "" {
		return PriorityMedium
	}
	return r.Priority
}

// EffectiveChannels returns the requested channels without duplicates,
// defaulting to in-app only.
func (r Request) EffectiveChannels() []Channel {
	if len(r.Channels) == 0 {
		return []Channel{ChannelInApp}
	}
	seen := make(map[Channel]bool, len(r.Channels))
	out := make([]Channel, 0, len(r.Channels))
	for _, c := range r.Channels {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Record is a persisted in-app notification.
type Record struct {
	ID string `json:"id"`
	Request
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewRecord builds an unread record from a request, applying defaults.
// The ID is left for the storage to assign.
func NewRecord(req Request, now time.Time) Record {
	req.Priority = req.EffectivePriority()
	req.Channels = req.EffectiveChannels()
	return Record{
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkAsRead flips the read flag. An already read record keeps its ReadAt.
func (r *Record) MarkAsRead(now time.Time) {
	if r.Read {
		return
	}
	r.Read = true
	r.ReadAt = &now
	r.UpdatedAt = now
}

// IsExpired reports whether the record is past its expiry.
func (r *Record) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
