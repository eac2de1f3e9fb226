package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
)

// stream pushes the unread counter on connect and then every new record of
// the user together with the refreshed counter, as datastar signal patches:
//
//	{"unread": 3}
//	{"latest": {...record...}, "unread": 4}
func (a *API) stream(ctx handler.Context, req userRequest) handler.Response {
	if a.feed == nil {
		return handler.JSONError(errStreamingOff)
	}

	return handler.SSE(func(stream handler.StreamContext) error {
		// Streams outlive the server write timeout.
		_ = http.NewResponseController(stream.ResponseWriter()).SetWriteDeadline(time.Time{})

		sub := a.feed.Subscribe(stream, req.UserID)
		defer sub.Close()

		unread, err := a.svc.CountUnread(stream, req.UserID)
		if err != nil {
			return err
		}
		if err := stream.SendSignal("unread", unread); err != nil {
			return err
		}

		for {
			select {
			case <-stream.Done():
				return nil
			case rec, ok := <-sub.C():
				if !ok {
					return nil
				}
				if n, err := a.svc.CountUnread(stream, req.UserID); err == nil {
					unread = n
				} else {
					a.logger.WarnContext(stream, "failed to refresh unread counter",
						logger.UserID(req.UserID),
						logger.Error(err),
					)
				}
				if err := stream.SendSignals(map[string]any{"latest": rec, "unread": unread}); err != nil {
					return err
				}
			}
		}
	})
}
