package main

import "time"

// AppConfig holds process-level settings. Subsystems load their own config
// types (pg.Config, redis.Config, email.Config, httpserver.Config).
type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_NAME" envDefault:"notifyd"`
	LogLevel string `env:"LOG_LEVEL"` // overrides the per-environment default

	Retention     time.Duration `env:"NOTIFICATION_RETENTION" envDefault:"2160h"` // 90 days
	SweepInterval time.Duration `env:"EXPIRED_SWEEP_INTERVAL" envDefault:"1h"`    // 0 disables the sweeper

	RedisEnabled   bool          `env:"REDIS_ENABLED" envDefault:"true"`
	PrefsCacheTTL  time.Duration `env:"PREFERENCES_CACHE_TTL" envDefault:"10m"`
	PrefsCacheSize int           `env:"PREFERENCES_CACHE_SIZE" envDefault:"10000"`

	LiveFeedBuffer   int `env:"LIVE_FEED_BUFFER" envDefault:"16"`
	LiveFeedMaxUsers int `env:"LIVE_FEED_MAX_USERS" envDefault:"10000"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	ReadinessTimeout time.Duration `env:"READINESS_TIMEOUT" envDefault:"2s"`
}
