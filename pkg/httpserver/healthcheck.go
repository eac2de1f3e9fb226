package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/async"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
)

// Check is a named readiness probe, e.g. a database ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

const (
	statusAlive    = "alive"
	statusReady    = "ready"
	statusNotReady = "not_ready"
	checkOK        = "ok"
)

// LivenessHandler always answers 200 while the process serves requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, HealthStatus{Status: statusAlive})
	}
}

// ReadinessHandler runs all checks concurrently, each bounded by timeout.
// It answers 200 when every check passes and 503 otherwise; failure
// details are logged rather than exposed.
func ReadinessHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		futures := make([]*async.Future[struct{}], len(checks))
		for i, c := range checks {
			futures[i] = async.Async(ctx, c, func(ctx context.Context, c Check) (struct{}, error) {
				return struct{}{}, c.Fn(ctx)
			})
		}

		body := HealthStatus{Status: statusReady, Checks: make(map[string]string, len(checks))}
		code := http.StatusOK
		for i, res := range async.Settle(futures...) {
			if res.Err != nil {
				log.WarnContext(ctx, "readiness check failed",
					slog.String("check", checks[i].Name),
					logger.Error(res.Err),
				)
				body.Checks[checks[i].Name] = "failed"
				body.Status = statusNotReady
				code = http.StatusServiceUnavailable
				continue
			}
			body.Checks[checks[i].Name] = checkOK
		}

		writeHealth(w, code, body)
	}
}

func writeHealth(w http.ResponseWriter, code int, body HealthStatus) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
