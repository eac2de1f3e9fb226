package ratelimiter

import (
	"errors"
	"fmt"
	"time"
)

// Config defines the token bucket. It can be loaded from the environment.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"30"`       // burst size
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`     // tokens per interval
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"2s"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("capacity must be positive, got %d", c.Capacity))
	case c.RefillRate <= 0:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("refill rate must be positive, got %d", c.RefillRate))
	case c.RefillInterval <= 0:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("refill interval must be positive, got %v", c.RefillInterval))
	}
	return nil
}

// refill returns the token count after the intervals elapsed since last,
// and the time the bucket was last topped up.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	elapsed := now.Sub(last)
	if elapsed < c.RefillInterval {
		return tokens, last
	}
	// Capped so a long idle period cannot overflow.
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := min(int64(elapsed/c.RefillInterval), maxIntervals)
	return min(tokens+int(intervals)*c.RefillRate, c.Capacity), now
}

// Result is the outcome of a single check.
type Result struct {
	Limit     int
	Remaining int // negative when the request was denied
	ResetAt   time.Time
}

// Allowed reports whether the request fits in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long a denied caller should wait.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}
