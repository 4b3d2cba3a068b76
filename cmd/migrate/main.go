// Package main is the schema migration CLI. It applies the same embedded
// migrations the server runs on boot, for deployments that keep
// auto-migrate off.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keyxmakerx/chronospace/internal/config"
	"github.com/keyxmakerx/chronospace/internal/database"
	"github.com/keyxmakerx/chronospace/internal/logger"
)

var steps int

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the ChronoSpace database schema",
	Long: `Applies or reverts the embedded schema migrations against the database
configured through CHRONOSPACE_* environment variables.

Example:
  migrate up
  migrate down --steps 1
  migrate force 3`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if steps > 0 {
				return m.Steps(steps)
			}
			return m.Up()
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert migrations (all of them unless --steps is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if steps > 0 {
				return m.Steps(-steps)
			}
			return m.Down()
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Set the schema version without running migrations (clears dirty state)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withMigrator(func(m *database.Migrator) error {
			return m.Force(v)
		})
	},
}

func init() {
	upCmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of migrations to apply (default: all)")
	downCmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of migrations to revert (default: all)")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

// withMigrator opens the configured database, runs fn and closes
// everything. ErrNoChange is not an error.
func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Logger = logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "chronospace-migrate"})

	db, err := database.Open(cfg.Database, log.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db.DB, cfg.Database.Driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	v, dirty, err := m.Version()
	if err == nil {
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
