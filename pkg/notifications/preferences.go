package notifications

import "time"

// TypeToggles holds one switch per known notification type.
type TypeToggles struct {
	Session  bool `json:"session"`
	Payment  bool `json:"payment"`
	Reminder bool `json:"reminder"`
	Review   bool `json:"review"`
	System   bool `json:"system"`
	Message  bool `json:"message"`
}

// AllTypes returns toggles with every type enabled.
func AllTypes() TypeToggles {
	return TypeToggles{Session: true, Payment: true, Reminder: true, Review: true, System: true, Message: true}
}

// Enabled reports the toggle for t. Unknown types are never enabled.
func (t TypeToggles) Enabled(typ Type) bool {
	switch typ {
	case TypeSession:
		return t.Session
	case TypePayment:
		return t.Payment
	case TypeReminder:
		return t.Reminder
	case TypeReview:
		return t.Review
	case TypeSystem:
		return t.System
	case TypeMessage:
		return t.Message
	default:
		return false
	}
}

// SMSBuckets are the coarse categories SMS preferences are keyed by.
type SMSBuckets struct {
	Reminders bool `json:"reminders"`
	Sessions  bool `json:"sessions"`
	Urgent    bool `json:"urgent"`
}

// Preferences is a user's per-channel and per-type delivery settings.
type Preferences struct {
	UserID             string      `json:"user_id"`
	EmailNotifications bool        `json:"email_notifications"`
	EmailTypes         TypeToggles `json:"email_types"`
	SMSNotifications   bool        `json:"sms_notifications"`
	SMSTypes           SMSBuckets  `json:"sms_types"`
	PushNotifications  bool        `json:"push_notifications"`
	PushTypes          TypeToggles `json:"push_types"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// DefaultPreferences returns the settings a user starts with:
// email and push on for every type, SMS off with every bucket pre-enabled.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:             userID,
		EmailNotifications: true,
		EmailTypes:         AllTypes(),
		SMSNotifications:   false,
		SMSTypes:           SMSBuckets{Reminders: true, Sessions: true, Urgent: true},
		PushNotifications:  true,
		PushTypes:          AllTypes(),
	}
}

// Allows is the channel gate: it reports whether req may be delivered on ch.
func (p Preferences) Allows(ch Channel, req Request) bool {
	switch ch {
	case ChannelInApp:
		return true
	case ChannelEmail:
		return p.EmailNotifications && p.EmailTypes.Enabled(req.Type)
	case ChannelPush:
		return p.PushNotifications && p.PushTypes.Enabled(req.Type)
	case ChannelSMS:
		if !p.SMSNotifications {
			return false
		}
		enabled, ok := p.smsBucketFor(req)
		return ok && enabled
	default:
		return false
	}
}

// smsBucketFor returns the switch of the one bucket req maps into. Type
// decides before priority: reminder, then session, then high priority.
// ok is false when req maps into no bucket.
func (p Preferences) smsBucketFor(req Request) (enabled, ok bool) {
	switch {
	case req.Type == TypeReminder:
		return p.SMSTypes.Reminders, true
	case req.Type == TypeSession:
		return p.SMSTypes.Sessions, true
	case req.Type.Known() && req.EffectivePriority() == PriorityHigh:
		return p.SMSTypes.Urgent, true
	}
	return false, false
}
