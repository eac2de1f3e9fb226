package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout formats session times in notification messages.
const DateLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// RequestOption decorates a scenario request.
type RequestOption func(*Request)

// WithRelated attaches the business entity the notification is about.
func WithRelated(entityType, id string) RequestOption {
	return func(r *Request) {
		r.Related = &RelatedEntity{ID: id, Type: entityType}
	}
}

// WithRelatedUser attaches a snapshot of the counterpart user.
func WithRelatedUser(u RelatedUser) RequestOption {
	return func(r *Request) {
		r.RelatedUser = &u
	}
}

// WithMetadata merges key/value pairs into the request metadata.
func WithMetadata(kv map[string]any) RequestOption {
	return func(r *Request) {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any, len(kv))
		}
		for k, v := range kv {
			r.Metadata[k] = v
		}
	}
}

func build(r Request, opts []RequestOption) Request {
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SessionBooked tells a mentor that a student booked a session.
func SessionBooked(mentorID, studentName string, at time.Time, opts ...RequestOption) Request {
	return build(Request{
		UserID:    mentorID,
		Type:      TypeSession,
		Priority:  PriorityMedium,
		Title:     "New Session Booked",
		Message:   fmt.Sprintf("%s booked a session with you on %s.", studentName, at.Format(DateLayout)),
		ActionURL: "/dashboard/sessions",
		Channels:  []Channel{ChannelInApp, ChannelEmail},
	}, opts)
}

// PaymentReceived tells a mentor that a payment arrived. amount is in major
// units of the ISO 4217 currency code.
func PaymentReceived(mentorID string, amount float64, currency, studentName string, opts ...RequestOption) Request {
	return build(Request{
		UserID:    mentorID,
		Type:      TypePayment,
		Priority:  PriorityMedium,
		Title:     "Payment Received",
		Message:   fmt.Sprintf("You received %s from %s.", FormatAmount(amount, currency), studentName),
		ActionURL: "/dashboard/earnings",
		Channels:  []Channel{ChannelInApp, ChannelEmail},
	}, opts)
}

// SessionReminder reminds a participant of an upcoming session.
func SessionReminder(userID, otherName string, at time.Time, opts ...RequestOption) Request {
	return build(Request{
		UserID:    userID,
		Type:      TypeReminder,
		Priority:  PriorityHigh,
		Title:     "Session Reminder",
		Message:   fmt.Sprintf("Your session with %s starts on %s.", otherName, at.Format(DateLayout)),
		ActionURL: "/dashboard/calendar",
		Channels:  []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	}, opts)
}

// NewReview tells a mentor that a student left a review.
func NewReview(mentorID, studentName string, rating int, opts ...RequestOption) Request {
	return build(Request{
		UserID:    mentorID,
		Type:      TypeReview,
		Priority:  PriorityLow,
		Title:     "New Review",
		Message:   fmt.Sprintf("%s left you a %d-star review.", studentName, rating),
		ActionURL: "/dashboard/reviews",
		Channels:  []Channel{ChannelInApp, ChannelEmail},
	}, opts)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// FormatAmount renders an amount with digit grouping and two decimals,
// prefixed by the currency symbol when known and by the code otherwise.
func FormatAmount(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	num := message.NewPrinter(language.English).Sprintf("%.2f", amount)
	if sym, ok := currencySymbols[code]; ok {
		return sym + num
	}
	if code == "" {
		return num
	}
	return code + " " + num
}

// NotifySessionBooked sends SessionBooked.
func (d *Dispatcher) NotifySessionBooked(ctx context.Context, mentorID, studentName string, at time.Time, opts ...RequestOption) (*Report, error) {
	return d.Send(ctx, SessionBooked(mentorID, studentName, at, opts...))
}

// NotifyPaymentReceived sends PaymentReceived.
func (d *Dispatcher) NotifyPaymentReceived(ctx context.Context, mentorID string, amount float64, currency, studentName string, opts ...RequestOption) (*Report, error) {
	return d.Send(ctx, PaymentReceived(mentorID, amount, currency, studentName, opts...))
}

// NotifySessionReminder sends SessionReminder.
func (d *Dispatcher) NotifySessionReminder(ctx context.Context, userID, otherName string, at time.Time, opts ...RequestOption) (*Report, error) {
	return d.Send(ctx, SessionReminder(userID, otherName, at, opts...))
}

// NotifyNewReview sends NewReview.
func (d *Dispatcher) NotifyNewReview(ctx context.Context, mentorID, studentName string, rating int, opts ...RequestOption) (*Report, error) {
	return d.Send(ctx, NewReview(mentorID, studentName, rating, opts...))
}
