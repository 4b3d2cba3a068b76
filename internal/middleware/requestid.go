package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the Echo context key for the current request ID.
const requestIDKey = "request_id"

// maxRequestIDLen caps client-supplied IDs so they can't bloat log lines.
const maxRequestIDLen = 128

// RequestID returns middleware that assigns every request an ID. A client
// supplied X-Request-ID is reused; otherwise a random UUID is generated.
// The ID is echoed back in the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}

			c.Set(requestIDKey, id)
			c.Response().Header().Set(RequestIDHeader, id)

			return next(c)
		}
	}
}
