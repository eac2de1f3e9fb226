// Package httpserver runs an http.Handler with graceful shutdown and
// provides JSON liveness and readiness endpoints.
//
// Run blocks until its context is cancelled or the process receives SIGINT
// or SIGTERM, then shuts the server down within the configured timeout.
// Stop hooks run as soon as shutdown begins so long-lived responses such as
// event streams can end instead of holding shutdown open.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(feed.Close),
//	)
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
package httpserver
