// Package main is the entry point for the ChronoSpace server. It loads
// configuration, establishes database connections, wires together the
// plugins, and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/chronospace/internal/app"
	"github.com/keyxmakerx/chronospace/internal/config"
	"github.com/keyxmakerx/chronospace/internal/database"
	"github.com/keyxmakerx/chronospace/internal/logger"
)

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	root := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "chronospace",
	})
	log.Logger = root
	zerolog.DefaultContextLogger = &root

	root.Info().
		Str("env", cfg.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Bool("testing", cfg.Testing).
		Msg("starting ChronoSpace")

	// --- Connect to the database ---
	db, err := database.Open(cfg.Database, root)
	if err != nil {
		return err
	}
	defer db.Close()
	root.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, cfg.Database.Driver, root); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Redis (optional) ---
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		root.Info().Msg("connected to Redis")
	} else {
		root.Info().Msg("no Redis configured, rate limiting per process")
	}

	// --- Create Application ---
	application := app.New(cfg, db, rdb, root)
	application.RegisterRoutes()

	// --- Serve until a signal arrives, then drain ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := application.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		root.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return application.Echo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	root.Info().Msg("server stopped")
	return nil
}
