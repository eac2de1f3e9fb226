package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/async"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
)

// DefaultRetention is how long in-app records live when the request has no expiry.
const DefaultRetention = 90 * 24 * time.Hour

// Publisher is notified of every persisted record, for real-time in-app delivery.
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
}

// Dispatcher persists notifications and fans them out to delivery channels.
type Dispatcher struct {
	storage   Storage
	prefs     PreferenceStore
	senders   map[Channel]ChannelSender
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	retention time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSender registers the sender for a channel. In-app delivery is the
// persisted record itself and cannot be replaced.
func WithSender(ch Channel, s ChannelSender) Option {
	return func(d *Dispatcher) {
		if ch != ChannelInApp && s != nil {
			d.senders[ch] = s
		}
	}
}

// WithPublisher sets a best-effort publisher for newly persisted records.
func WithPublisher(p Publisher) Option {
	return func(d *Dispatcher) {
		d.publisher = p
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithRetention sets the expiry applied to requests without one. Zero disables it.
func WithRetention(r time.Duration) Option {
	return func(d *Dispatcher) {
		if r >= 0 {
			d.retention = r
		}
	}
}

// NewDispatcher creates a dispatcher. Channels without a registered sender
// are reported as skipped.
func NewDispatcher(storage Storage, prefs PreferenceStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		storage:   storage,
		prefs:     prefs,
		senders:   make(map[Channel]ChannelSender),
		logger:    slog.Default(),
		now:       time.Now,
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send persists exactly one in-app record for req, loads the owner's
// preferences and attempts every other requested channel concurrently.
//
// Only validation, persistence and preference loading fail the call. When
// preferences cannot be loaded the record stays stored and the returned
// report carries its ID. Channel outcomes, including failures and panics,
// are collected in the report.
func (d *Dispatcher) Send(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := d.now()
	rec := NewRecord(req, now)
	if rec.ExpiresAt == nil && d.retention > 0 {
		exp := now.Add(d.retention)
		rec.ExpiresAt = &exp
	}

	id, err := d.storage.Create(ctx, rec)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "failed to persist notification",
			logger.UserID(rec.UserID),
			logger.NotificationType(string(rec.Type)),
			logger.Error(err),
		)
		return nil, errors.Join(ErrPersistFailed, err)
	}
	rec.ID = id

	report := &Report{
		NotificationID: id,
		UserID:         rec.UserID,
		Results:        []ChannelResult{{Channel: ChannelInApp, Status: StatusDelivered}},
	}
	d.publish(ctx, rec)

	prefs, err := d.prefs.GetOrCreate(ctx, rec.UserID)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "failed to load notification preferences",
			logger.NotificationID(id),
			logger.UserID(rec.UserID),
			logger.Error(err),
		)
		return report, errors.Join(ErrPreferencesFailed, err)
	}

	type attempt struct {
		channel Channel
		rec     Record
		prefs   Preferences
	}

	var channels []Channel
	var futures []*async.Future[ChannelResult]
	for _, ch := range rec.Channels {
		if ch == ChannelInApp {
			continue
		}
		channels = append(channels, ch)
		futures = append(futures, async.Async(ctx, attempt{ch, rec, prefs},
			func(ctx context.Context, a attempt) (ChannelResult, error) {
				return d.deliver(ctx, a.channel, a.rec, a.prefs), nil
			}))
	}

	for i, res := range async.Settle(futures...) {
		result := res.Value
		if res.Err != nil {
			result = ChannelResult{Channel: channels[i], Status: StatusFailed, Reason: res.Err.Error(), Err: res.Err}
			if errors.Is(res.Err, async.ErrPanic) {
				result.Err = errors.Join(ErrChannelPanic, res.Err)
			}
		}
		d.logResult(ctx, rec, result)
		report.Results = append(report.Results, result)
	}

	d.logger.LogAttrs(ctx, slog.LevelDebug, "notification dispatched",
		logger.NotificationID(id),
		logger.UserID(rec.UserID),
		logger.NotificationType(string(rec.Type)),
		slog.Int("channels", len(report.Results)),
		slog.Int("failed", len(report.Failed())),
	)
	return report, nil
}

func (d *Dispatcher) deliver(ctx context.Context, ch Channel, rec Record, prefs Preferences) ChannelResult {
	if !prefs.Allows(ch, rec.Request) {
		reason := "disabled by user preferences"
		if !rec.Type.Known() {
			reason = "unknown notification type"
		}
		return ChannelResult{Channel: ch, Status: StatusSkipped, Reason: reason}
	}

	sender, ok := d.senders[ch]
	if !ok {
		return ChannelResult{Channel: ch, Status: StatusSkipped, Reason: "no sender registered"}
	}

	if err := sender.Send(ctx, rec); err != nil {
		return ChannelResult{Channel: ch, Status: StatusFailed, Reason: err.Error(), Err: err}
	}
	return ChannelResult{Channel: ch, Status: StatusDelivered}
}

func (d *Dispatcher) publish(ctx context.Context, rec Record) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, rec); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish in-app notification",
			logger.NotificationID(rec.ID),
			logger.UserID(rec.UserID),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) logResult(ctx context.Context, rec Record, res ChannelResult) {
	attrs := []slog.Attr{
		logger.NotificationID(rec.ID),
		logger.UserID(rec.UserID),
		logger.Channel(string(res.Channel)),
		slog.String("status", string(res.Status)),
	}
	switch res.Status {
	case StatusFailed:
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification channel failed", append(attrs, logger.Error(res.Err))...)
	case StatusSkipped:
		d.logger.LogAttrs(ctx, slog.LevelDebug, "notification channel skipped", append(attrs, slog.String("reason", res.Reason))...)
	default:
		d.logger.LogAttrs(ctx, slog.LevelDebug, "notification channel delivered", attrs...)
	}
}

// Get returns a stored record.
func (d *Dispatcher) Get(ctx context.Context, id string) (*Record, error) {
	return d.storage.Get(ctx, id)
}

// List returns a user's records, newest first.
func (d *Dispatcher) List(ctx context.Context, userID string, opts ListOptions) ([]Record, error) {
	return d.storage.List(ctx, userID, opts)
}

// CountUnread returns the number of unread records of a user.
func (d *Dispatcher) CountUnread(ctx context.Context, userID string) (int, error) {
	return d.storage.CountUnread(ctx, userID)
}

// MarkAsRead marks a record read. It is idempotent and returns false for unknown IDs.
func (d *Dispatcher) MarkAsRead(ctx context.Context, id string) (bool, error) {
	return d.storage.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks every unread record of a user and returns the count.
func (d *Dispatcher) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return d.storage.MarkAllAsRead(ctx, userID)
}

// DeleteExpired removes expired records. It is meant to be called by an
// external scheduler.
func (d *Dispatcher) DeleteExpired(ctx context.Context) (int, error) {
	n, err := d.storage.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		d.logger.LogAttrs(ctx, slog.LevelInfo, "expired notifications deleted", slog.Int("count", n))
	}
	return n, nil
}

// Preferences returns a user's preferences, creating defaults on first access.
func (d *Dispatcher) Preferences(ctx context.Context, userID string) (Preferences, error) {
	return d.prefs.GetOrCreate(ctx, userID)
}

// UpdatePreferences replaces a user's preferences.
func (d *Dispatcher) UpdatePreferences(ctx context.Context, prefs Preferences) error {
	return d.prefs.Update(ctx, prefs)
}
