// Package httpapi exposes the notification dispatcher over HTTP with chi.
//
// Routes:
//
//	POST   /notifications                               dispatch a request, 201 with the report
//	GET    /notifications/{id}                          one record
//	POST   /notifications/{id}/read                     mark read, 404 when unknown
//	DELETE /notifications/expired                       purge expired records
//	GET    /users/{userID}/notifications                list (unread, type, since, limit, offset)
//	GET    /users/{userID}/notifications/unread-count   unread counter
//	POST   /users/{userID}/notifications/read-all       mark every record read
//	GET    /users/{userID}/notifications/stream         SSE feed of new records
//	GET    /users/{userID}/preferences                  delivery preferences
//	PUT    /users/{userID}/preferences                  replace delivery preferences
//	POST   /events/{session-booked|payment-received|session-reminder|new-review}
//	GET    /health/live, /health/ready
//
// Every JSON body uses the handler.JSONResponse envelope. With WithRateLimit
// the dispatching routes (POST /notifications and /events/*) are throttled
// per client IP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mentorkit/pkg/binder"
	"github.com/dmitrymomot/mentorkit/pkg/broadcast"
	"github.com/dmitrymomot/mentorkit/pkg/clientip"
	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/httpserver"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
	"github.com/dmitrymomot/mentorkit/pkg/ratelimiter"
	"github.com/dmitrymomot/mentorkit/pkg/requestid"
)

// Service is the part of notifications.Dispatcher the API needs.
type Service interface {
	Send(ctx context.Context, req notifications.Request) (*notifications.Report, error)
	Get(ctx context.Context, id string) (*notifications.Record, error)
	List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Record, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, id string) (bool, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
	Preferences(ctx context.Context, userID string) (notifications.Preferences, error)
	UpdatePreferences(ctx context.Context, prefs notifications.Preferences) error
}

// Feed provides live subscriptions to a user's new records.
type Feed interface {
	Subscribe(ctx context.Context, userID string) *broadcast.Subscription[notifications.Record]
}

// DefaultListLimit applies when a list request has no limit.
const DefaultListLimit = 50

// MaxListLimit caps the page size of list requests.
const MaxListLimit = 200

// API serves the notification endpoints.
type API struct {
	svc          Service
	feed         Feed
	logger       *slog.Logger
	checks       []httpserver.Check
	checkTimeout time.Duration
	limiter      *ratelimiter.Bucket
}

// Option configures an API.
type Option func(*API)

// WithLiveFeed enables the SSE stream endpoint.
func WithLiveFeed(f Feed) Option {
	return func(a *API) { a.feed = f }
}

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithHealthChecks registers readiness checks, each bounded by timeout.
func WithHealthChecks(timeout time.Duration, checks ...httpserver.Check) Option {
	return func(a *API) {
		a.checkTimeout = timeout
		a.checks = append(a.checks, checks...)
	}
}

// WithRateLimit throttles the dispatching routes per client IP.
func WithRateLimit(b *ratelimiter.Bucket) Option {
	return func(a *API) { a.limiter = b }
}

// New creates the API on top of svc.
func New(svc Service, opts ...Option) *API {
	a := &API{
		svc:          svc,
		logger:       slog.Default(),
		checkTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the chi router with request ID, client IP, panic recovery
// and access logging middleware.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(a.accessLog)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.logger, a.checkTimeout, a.checks...))

	onErr := handler.WithErrorHandler(handler.NewErrorHandler(a.logger))
	body := handler.WithBinders(binder.JSON())
	path := handler.WithBinders(binder.Path(chi.URLParam))
	pathQuery := handler.WithBinders(binder.Path(chi.URLParam), binder.Query())
	pathBody := handler.WithBinders(binder.Path(chi.URLParam), binder.JSON())
	throttle := a.throttle()

	r.Route("/notifications", func(r chi.Router) {
		r.With(throttle).Post("/", handler.Wrap(a.send, body, onErr))
		r.Delete("/expired", handler.Wrap(a.deleteExpired, onErr))
		r.Get("/{id}", handler.Wrap(a.get, path, onErr))
		r.Post("/{id}/read", handler.Wrap(a.markAsRead, path, onErr))
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/notifications", handler.Wrap(a.list, pathQuery, onErr))
		r.Get("/notifications/unread-count", handler.Wrap(a.unreadCount, path, onErr))
		r.Post("/notifications/read-all", handler.Wrap(a.markAllAsRead, path, onErr))
		r.Get("/notifications/stream", handler.Wrap(a.stream, path, onErr))
		r.Get("/preferences", handler.Wrap(a.preferences, path, onErr))
		r.Put("/preferences", handler.Wrap(a.updatePreferences, pathBody, onErr))
	})

	r.Route("/events", func(r chi.Router) {
		r.Use(throttle)
		r.Post("/session-booked", handler.Wrap(a.sessionBooked, body, onErr))
		r.Post("/payment-received", handler.Wrap(a.paymentReceived, body, onErr))
		r.Post("/session-reminder", handler.Wrap(a.sessionReminder, body, onErr))
		r.Post("/new-review", handler.Wrap(a.newReview, body, onErr))
	})

	return r
}

func (a *API) throttle() func(http.Handler) http.Handler {
	if a.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimiter.Middleware(a.limiter, ratelimiter.ByClientIP,
		ratelimiter.WithMiddlewareLogger(a.logger),
	)
}

func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		a.logger.LogAttrs(r.Context(), slog.LevelDebug, "http request",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.ClientIP(clientip.FromContext(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
