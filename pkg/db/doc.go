// Package db opens the PostgreSQL pool that backs the job store and the
// callback queue, and applies schema migrations.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with retrying connect, a
// readiness check and migrations run through [github.com/pressly/goose/v3].
//
// # Configuration
//
// Config is populated from environment variables:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: jobrpc_migrations)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//
//	if err := db.Migrate(ctx, pool, jobstore.Migrations(), cfg.MigrationsTable, log); err != nil {
//	    return err
//	}
//
//	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    _, err := tx.Exec(ctx, "UPDATE job_info SET trigger_status = 0 WHERE id = $1", id)
//	    return err
//	})
//
// Register Shutdown(pool) as a shutdown hook and Healthcheck(pool) as a
// readiness check.
package db
