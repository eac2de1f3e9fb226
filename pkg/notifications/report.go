package notifications

import "errors"

// Status is the outcome of one channel attempt.
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// ChannelResult is the outcome of delivering one record on one channel.
type ChannelResult struct {
	Channel Channel `json:"channel"`
	Status  Status  `json:"status"`
	Reason  string  `json:"reason,omitempty"`
	Err     error   `json:"-"`
}

// Report summarises a dispatch. Channel failures are recorded here and are
// never returned as the error of Dispatcher.Send.
type Report struct {
	NotificationID string          `json:"notification_id"`
	UserID         string          `json:"user_id"`
	Results        []ChannelResult `json:"results"`
}

// Result returns the outcome for ch.
func (r *Report) Result(ch Channel) (ChannelResult, bool) {
	for _, res := range r.Results {
		if res.Channel == ch {
			return res, true
		}
	}
	return ChannelResult{}, false
}

// Status returns the status for ch, or an empty status when ch was not requested.
func (r *Report) Status(ch Channel) Status {
	res, _ := r.Result(ch)
	return res.Status
}

// Failed returns the failed channel results.
func (r *Report) Failed() []ChannelResult {
	var out []ChannelResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of all failed channels, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}
