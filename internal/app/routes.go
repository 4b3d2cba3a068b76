package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keyxmakerx/chronospace/internal/middleware"
	"github.com/keyxmakerx/chronospace/internal/plugins/categories"
	"github.com/keyxmakerx/chronospace/internal/plugins/epochs"
	"github.com/keyxmakerx/chronospace/internal/plugins/events"
)

// readyTimeout bounds each dependency ping in the readiness check.
const readyTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. It registers the service
// endpoints directly and delegates to each plugin's route registration.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Service Routes ---

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"project": a.Config.ProjectName,
			"api":     a.Config.APIPrefix,
		})
	})

	// Liveness: the process is up and serving.
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Readiness: dependencies answer.
	e.GET("/health/ready", a.ready)

	if a.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	}

	// --- API Routes ---

	api := e.Group(a.Config.APIPrefix,
		middleware.RateLimit(a.rateLimitStore(), a.Config.RateLimit.Requests, a.Config.RateLimit.Window),
	)

	epochRepo := epochs.NewEpochRepository(a.DB)
	epochs.RegisterRoutes(api, epochs.NewHandler(epochs.NewEpochService(epochRepo)))

	categoryRepo := categories.NewCategoryRepository(a.DB)
	categories.RegisterRoutes(api, categories.NewHandler(categories.NewCategoryService(categoryRepo)))

	eventRepo := events.NewEventRepository(a.DB)
	events.RegisterRoutes(api, events.NewHandler(events.NewEventService(eventRepo)))
}

// ready pings the database and, when configured, Redis.
func (a *App) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()

	log := middleware.GetLogger(c)
	checks := map[string]string{"database": "ok"}
	healthy := true

	if err := a.DB.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("database ping failed")
		checks["database"] = "unavailable"
		healthy = false
	}
	if a.Redis != nil {
		checks["redis"] = "ok"
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed")
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": checks})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "checks": checks})
}
