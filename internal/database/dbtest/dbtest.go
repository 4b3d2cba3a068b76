// Package dbtest opens throwaway SQLite databases with the full schema
// applied, for repository and HTTP tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/keyxmakerx/chronospace/internal/config"
	"github.com/keyxmakerx/chronospace/internal/database"
)

// New returns a migrated in-memory database private to the calling test.
// The database is closed when the test finishes.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := config.Default().Database
	cfg.Driver = config.DriverSQLite
	cfg.URL = "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"

	db, err := database.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(db.DB, config.DriverSQLite, zerolog.Nop()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}
