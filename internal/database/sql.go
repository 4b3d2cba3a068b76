// Package database provides connection setup for the SQL store and Redis.
// Both connections are created once at startup and shared across the
// application via dependency injection. This package owns the connection
// lifecycle (open, configure pool, ping, close).
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	// SQL drivers -- imported for side effect of registering them.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/keyxmakerx/chronospace/internal/config"
)

// Open creates a connection pool for the configured driver and pings the
// database before returning. MySQL is retried with exponential backoff
// because the server may still be starting when the app container launches.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		configureSQLite(db)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	const maxRetries = 10
	backoff := 1 * time.Second
	var pingErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr = db.PingContext(ctx)
		cancel()

		if pingErr == nil {
			return db, nil
		}

		if attempt == maxRetries || cfg.Driver == config.DriverSQLite {
			break
		}

		log.Warn().
			Err(pingErr).
			Int("attempt", attempt).
			Int("max_retries", maxRetries).
			Dur("backoff", backoff).
			Msg("database not ready, retrying")
		time.Sleep(backoff)
		backoff = min(backoff*2, 30*time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("pinging %s: %w", cfg.Driver, pingErr)
}

// configureSQLite pins the pool to a single long-lived connection. SQLite
// serializes writers anyway, and an in-memory database disappears as soon
// as its last connection closes.
func configureSQLite(db *sqlx.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
}
