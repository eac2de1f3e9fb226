package httpapi

import (
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

// Event payloads carry the business facts; the titles, messages, priorities
// and channels come from the notifications scenario builders.

type sessionBookedEvent struct {
	MentorID    string                     `json:"mentor_id"`
	StudentName string                     `json:"student_name"`
	At          time.Time                  `json:"at"`
	SessionID   string                     `json:"session_id"`
	Student     *notifications.RelatedUser `json:"student"`
}

type paymentReceivedEvent struct {
	MentorID    string                     `json:"mentor_id"`
	Amount      float64                    `json:"amount"`
	Currency    string                     `json:"currency"`
	StudentName string                     `json:"student_name"`
	PaymentID   string                     `json:"payment_id"`
	Student     *notifications.RelatedUser `json:"student"`
}

type sessionReminderEvent struct {
	UserID    string                     `json:"user_id"`
	OtherName string                     `json:"other_name"`
	At        time.Time                  `json:"at"`
	SessionID string                     `json:"session_id"`
	Other     *notifications.RelatedUser `json:"other"`
}

type newReviewEvent struct {
	MentorID    string                     `json:"mentor_id"`
	StudentName string                     `json:"student_name"`
	Rating      int                        `json:"rating"`
	ReviewID    string                     `json:"review_id"`
	Student     *notifications.RelatedUser `json:"student"`
}

func relatedOpts(entityType, id string, user *notifications.RelatedUser) []notifications.RequestOption {
	var opts []notifications.RequestOption
	if id != "" {
		opts = append(opts, notifications.WithRelated(entityType, id))
	}
	if user != nil {
		opts = append(opts, notifications.WithRelatedUser(*user))
	}
	return opts
}

func (a *API) sessionBooked(ctx handler.Context, ev sessionBookedEvent) handler.Response {
	return a.send(ctx, notifications.SessionBooked(ev.MentorID, ev.StudentName, ev.At,
		relatedOpts("session", ev.SessionID, ev.Student)...))
}

func (a *API) paymentReceived(ctx handler.Context, ev paymentReceivedEvent) handler.Response {
	return a.send(ctx, notifications.PaymentReceived(ev.MentorID, ev.Amount, ev.Currency, ev.StudentName,
		relatedOpts("payment", ev.PaymentID, ev.Student)...))
}

func (a *API) sessionReminder(ctx handler.Context, ev sessionReminderEvent) handler.Response {
	return a.send(ctx, notifications.SessionReminder(ev.UserID, ev.OtherName, ev.At,
		relatedOpts("session", ev.SessionID, ev.Other)...))
}

func (a *API) newReview(ctx handler.Context, ev newReviewEvent) handler.Response {
	if ev.Rating < 1 || ev.Rating > 5 {
		return handler.JSONError(handler.ErrBadRequest.Wrap(errInvalidRating))
	}
	return a.send(ctx, notifications.NewReview(ev.MentorID, ev.StudentName, ev.Rating,
		relatedOpts("review", ev.ReviewID, ev.Student)...))
}
