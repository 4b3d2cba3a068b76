package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/keyxmakerx/chronospace/internal/apperror"
)

// RequestLogger returns middleware that derives a per-request logger from
// base (tagged with request_id, method and path), makes it available to
// handlers and to anything holding the request context, and logs every
// request once it completes.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqLog := base.With().
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()
			c.Set(loggerKey, &reqLog)
			c.SetRequest(req.WithContext(reqLog.WithContext(req.Context())))

			err := next(c)

			status := responseStatus(c, err)

			var e *zerolog.Event
			switch {
			case status >= 500:
				e = reqLog.Error().Err(err)
			case status >= 400:
				e = reqLog.Warn()
			default:
				e = reqLog.Info()
			}

			if q := req.URL.RawQuery; q != "" {
				e = e.Str("query", q)
			}

			e.Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Msg("request")

			return err
		}
	}
}

// responseStatus returns the status the client will see. When a handler
// returns an error the error handler hasn't written the response yet, so
// the status is taken from the error itself.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code
	}
	return apperror.SafeCode(err)
}
