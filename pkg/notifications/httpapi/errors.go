package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
	"github.com/dmitrymomot/mentorkit/pkg/requestid"
)

// toHTTPError maps domain errors to client errors. Anything unmapped is
// reported as a 500 without its message.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, notifications.ErrInvalidRequest):
		return handler.ErrBadRequest.Wrap(err)
	case errors.Is(err, notifications.ErrNotificationNotFound):
		return handler.ErrNotFound.Wrap(err)
	}
	return err
}

// fail logs unmapped errors and renders the mapped error.
func (a *API) fail(ctx handler.Context, err error) handler.Response {
	mapped := toHTTPError(err)
	var httpErr handler.HTTPError
	if !errors.As(mapped, &httpErr) {
		a.logger.ErrorContext(ctx, "notification request failed",
			logger.RequestID(requestid.FromContext(ctx)),
			slog.String("path", ctx.Request().URL.Path),
			logger.Error(err),
		)
	}
	return handler.JSONError(mapped)
}

var (
	errInvalidPage   = errors.New("limit and offset must not be negative")
	errInvalidRating = errors.New("rating must be between 1 and 5")
	errStreamingOff  = handler.NewHTTPError(http.StatusNotImplemented, "streaming_disabled")
)
