// Command notifyd runs the notification dispatch service: the HTTP API on
// top of Postgres storage, Redis-cached preferences and the configured mail
// transport.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/clientip"
	"github.com/dmitrymomot/mentorkit/pkg/config"
	"github.com/dmitrymomot/mentorkit/pkg/email"
	"github.com/dmitrymomot/mentorkit/pkg/httpserver"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
	"github.com/dmitrymomot/mentorkit/pkg/notifications/httpapi"
	"github.com/dmitrymomot/mentorkit/pkg/notifications/pgstore"
	"github.com/dmitrymomot/mentorkit/pkg/notifications/redisprefs"
	"github.com/dmitrymomot/mentorkit/pkg/pg"
	"github.com/dmitrymomot/mentorkit/pkg/ratelimiter"
	"github.com/dmitrymomot/mentorkit/pkg/redis"
	"github.com/dmitrymomot/mentorkit/pkg/requestid"
)

func main() {
	var app AppConfig
	config.MustLoad(&app)

	opts := []logger.Option{
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if app.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(app.LogLevel))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, log); err != nil {
		log.Error("notifyd stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, app AppConfig, log *slog.Logger) error {
	var (
		pgCfg   pg.Config
		mailCfg email.Config
		httpCfg httpserver.Config
	)
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	if err := config.Load(&mailCfg); err != nil {
		return err
	}
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, pgstore.Migrations, pgstore.MigrationsDir, log); err != nil {
		return err
	}

	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	var (
		prefs        notifications.PreferenceStore = pgstore.NewPreferenceStore(pool)
		limiterStore ratelimiter.Store
	)
	if app.RedisEnabled {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()

		prefs = redisprefs.New(prefs, redis.NewStorage(client, redisCfg.KeyPrefix),
			redisprefs.WithTTL(app.PrefsCacheTTL),
			redisprefs.WithLogger(log),
		)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		limiterStore = ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix(redisCfg.KeyPrefix+"ratelimit:"))
	}
	prefs = notifications.NewCachedPreferenceStore(prefs, app.PrefsCacheSize, app.PrefsCacheTTL)

	mailer := email.New(mailCfg, email.WithLogger(log))
	feed := notifications.NewLiveFeed(app.LiveFeedBuffer, app.LiveFeedMaxUsers)

	dispatcher := notifications.NewDispatcher(pgstore.NewStorage(pool), prefs,
		notifications.WithLogger(log),
		notifications.WithRetention(app.Retention),
		notifications.WithPublisher(feed),
		notifications.WithSender(notifications.ChannelEmail, notifications.NewEmailSender(mailer)),
		notifications.WithSender(notifications.ChannelSMS, notifications.NewLogSender(notifications.ChannelSMS, log)),
		notifications.WithSender(notifications.ChannelPush, notifications.NewLogSender(notifications.ChannelPush, log)),
	)

	if app.SweepInterval > 0 {
		go sweepExpired(ctx, dispatcher, app.SweepInterval, log)
	}

	apiOpts := []httpapi.Option{
		httpapi.WithLogger(log),
		httpapi.WithLiveFeed(feed),
		httpapi.WithHealthChecks(app.ReadinessTimeout, checks...),
	}
	if app.RateLimitEnabled {
		var limitCfg ratelimiter.Config
		if err := config.Load(&limitCfg); err != nil {
			return err
		}
		if limiterStore == nil {
			mem := ratelimiter.NewMemoryStore()
			defer mem.Close()
			limiterStore = mem
		}
		bucket, err := ratelimiter.NewBucket(limiterStore, limitCfg)
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, httpapi.WithRateLimit(bucket))
	}
	api := httpapi.New(dispatcher, apiOpts...)

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(feed.Close),
	)
	return srv.Run(ctx, api.Router())
}

// sweepExpired deletes expired notifications every interval until ctx ends.
func sweepExpired(ctx context.Context, d *notifications.Dispatcher, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DeleteExpired(ctx); err != nil {
				log.WarnContext(ctx, "expired notification sweep failed",
					logger.Component("sweeper"),
					logger.Error(err),
				)
			}
		}
	}
}
