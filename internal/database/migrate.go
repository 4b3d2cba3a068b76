package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"

	"github.com/keyxmakerx/chronospace/internal/config"
)

// migrationsFS holds the versioned DDL, one directory per driver. Both
// directories carry the same version numbers.
//
//go:embed migrations/mysql/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// Migrator is a golang-migrate instance bound to the embedded migrations.
type Migrator struct {
	*migrate.Migrate
	conn *sql.Conn
}

// Close returns the connection the MySQL driver reserves from the pool.
// The *sql.DB stays open; closing the embedded Migrate instead would close
// the SQLite handle shared with the rest of the process.
func (m *Migrator) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

// NewMigrator returns a migrator bound to db and the embedded migrations
// for driver. Callers must Close it when done.
func NewMigrator(db *sql.DB, driver string) (*Migrator, error) {
	var (
		instance migratedb.Driver
		conn     *sql.Conn
		err      error
	)
	switch driver {
	case config.DriverMySQL:
		ctx := context.Background()
		conn, err = db.Conn(ctx)
		if err != nil {
			return nil, fmt.Errorf("reserving migration connection: %w", err)
		}
		instance, err = mysql.WithConnection(ctx, conn, &mysql.Config{})
	case config.DriverSQLite:
		instance, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}
	mg := &Migrator{conn: conn}
	if err != nil {
		_ = mg.Close()
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		_ = mg.Close()
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}

	mg.Migrate, err = migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		_ = mg.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return mg, nil
}

// RunMigrations applies all pending migrations for driver. Safe to call on
// every startup: already-applied migrations are skipped.
func RunMigrations(db *sql.DB, driver string, log zerolog.Logger) error {
	m, err := NewMigrator(db, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("migrations applied")

	return nil
}
