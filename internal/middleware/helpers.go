// Package middleware provides HTTP middleware for the ChronoSpace Echo
// server. Middleware is applied globally or per route group; see
// internal/app for registration order.
package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// loggerKey is the Echo context key for the request-scoped logger.
const loggerKey = "logger"

// GetRequestID returns the ID assigned by RequestID, or "" if it didn't run.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetLogger returns the request-scoped logger stored by RequestLogger.
// Falls back to the logger on the request context (which is the zerolog
// default logger when none was attached).
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(loggerKey).(*zerolog.Logger); ok {
		return l
	}
	return zerolog.Ctx(c.Request().Context())
}
