// Package pgstore implements notifications.Storage and
// notifications.PreferenceStore on PostgreSQL with pgx.
//
// The schema ships as goose migrations in Migrations; apply them with
// pg.Migrate(ctx, pool, cfg, pgstore.Migrations, pgstore.MigrationsDir, log).
package pgstore

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations holds the goose SQL migrations for both tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that holds the files.
const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool and pgx.Tx used by the stores.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
