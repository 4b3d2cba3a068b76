// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (DB pool, Redis client, Echo instance)
// and wires the epoch, category and event plugins onto the API group.
package app

import (
	"errors"
	"net/http"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/config"
	"github.com/keyxmakerx/chronospace/internal/middleware"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the SQL connection pool shared by all plugins.
	DB *sqlx.DB

	// Redis backs the rate limiter. Nil when no Redis URL is configured.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	// Logger is the root logger; requests get a child of it.
	Logger zerolog.Logger

	// Registry collects the metrics served on /metrics.
	Registry *prometheus.Registry

	metrics *middleware.Metrics
}

// New creates a new App with the given dependencies and configures the
// Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, log zerolog.Logger) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Resolve the client IP from forwarding headers only when the direct
	// peer is a known proxy. The rate limiter keys on this.
	middleware.TrustedProxies(e, cfg.Server.TrustedProxies)

	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Echo:     e,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	}

	if cfg.Metrics.Enabled {
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(db.DB, cfg.Database.Name),
		)
		app.metrics = middleware.NewMetrics(app.Registry)
	}

	app.setupMiddleware()

	// Register the custom error handler that maps AppErrors to HTTP responses.
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: the request ID must exist before the logger reads it, and
// recovery sits inside the logger so panics are logged as 500s.
func (a *App) setupMiddleware() {
	// "/api/v1/events/" and "/api/v1/events" route to the same handler.
	a.Echo.Pre(echomw.RemoveTrailingSlash())

	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestLogger(a.Logger))
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.SecurityHeaders())

	// Credentials are only allowed for an explicit origin list.
	origins := a.Config.Server.CORSOrigins
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   origins,
		AllowCredentials: !slices.Contains(origins, "*"),
	}))

	if a.metrics != nil {
		a.Echo.Use(a.metrics.Middleware())
	}
}

// rateLimitStore picks the shared Redis store when Redis is configured and
// falls back to per-process counters.
func (a *App) rateLimitStore() middleware.RateLimitStore {
	if a.Redis != nil {
		return middleware.NewRedisStore(a.Redis)
	}
	return middleware.NewMemoryStore()
}

// errorHandler renders every error as {"detail": ...}. Validation errors
// carry a list of field failures; everything else carries a message.
// Internal causes are logged, never sent.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	log := middleware.GetLogger(c)
	code := http.StatusInternalServerError
	var detail any = "Internal Server Error"

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		detail = appErr.Detail()
		if appErr.Internal != nil {
			log.Error().
				Err(appErr.Internal).
				Str("type", appErr.Type).
				Msg("internal error")
		}
	case errors.As(err, &echoErr):
		// Router errors: 404 for unknown paths, 405 for wrong methods.
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			detail = msg
		} else {
			detail = http.StatusText(code)
		}
	default:
		log.Error().Err(err).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if err := c.JSON(code, map[string]any{"detail": detail}); err != nil {
		log.Error().Err(err).Msg("writing error response")
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	a.Logger.Info().
		Str("addr", a.Config.Addr()).
		Str("env", a.Config.Env).
		Msg("starting ChronoSpace server")
	return a.Echo.Start(a.Config.Addr())
}
