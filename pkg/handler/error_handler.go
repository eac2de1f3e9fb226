package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mentorkit/pkg/clientip"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/requestid"
)

// logLevelFor maps status codes to log levels: 4xx warn, everything else error.
func logLevelFor(status int) slog.Level {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler returns an ErrorHandler that logs the failure with the
// request ID and client IP, then renders it as a JSON error.
// Configure it once in main.go and pass it to every route.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		resp := JSONError(err).(*jsonResponse)

		log.LogAttrs(r.Context(), logLevelFor(resp.status), "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.ClientIP(clientip.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", resp.status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.RequestID(requestid.FromContext(r.Context())),
				logger.Error(renderErr),
			)
		}
	}
}
