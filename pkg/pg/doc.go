// Package pg opens pgx connection pools and applies embedded goose migrations.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, pgstore.MigrationsDir, log); err != nil {
//	    return err
//	}
//
// Healthcheck returns a readiness probe suitable for httpserver.
package pg
