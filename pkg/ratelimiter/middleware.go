package ratelimiter

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/clientip"
	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
)

// maxKeyLength bounds storage keys; longer composites are hashed.
const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the request. An empty key skips
// limiting for that request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the address resolved by clientip.Middleware, falling
// back to resolving it from the request.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return "ip:" + ip
	}
	if ip := clientip.GetIP(r); ip != "" {
		return "ip:" + ip
	}
	return ""
}

// ByRoute keys on method and path.
func ByRoute(r *http.Request) string {
	return r.Method + ":" + r.URL.Path
}

// Composite joins the non-empty keys of several key functions.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, "|")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

type middlewareConfig struct {
	logger *slog.Logger
	now    func() time.Time
}

type MiddlewareOption func(*middlewareConfig)

func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Middleware limits requests per key. Denied requests get a JSON 429.
func Middleware(b *Bucket, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{logger: logger.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := b.Allow(r.Context(), key)
			if err != nil {
				cfg.logger.WarnContext(r.Context(), "rate limit check failed",
					logger.Component("ratelimiter"),
					logger.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				wait := result.RetryAfter(cfg.now())
				seconds := int(math.Ceil(wait.Seconds()))
				h.Set("Retry-After", strconv.Itoa(max(seconds, 1)))

				cause := fmt.Errorf("rate limit exceeded, retry in %ds", max(seconds, 1))
				_ = handler.JSONError(handler.ErrTooManyRequests.Wrap(cause)).Render(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
