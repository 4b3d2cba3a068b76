package validation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/timestamp"
)

// Pagination bounds for list endpoints.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page is an offset/limit window over a list.
type Page struct {
	Skip  int
	Limit int
}

// BindPage reads ?skip and ?limit, applying defaults of 0 and 100.
func BindPage(c echo.Context) (Page, error) {
	p := Page{Skip: 0, Limit: DefaultLimit}
	err := echo.QueryParamsBinder(c).
		Int("skip", &p.Skip).
		Int("limit", &p.Limit).
		BindError()
	if err != nil {
		return p, queryError(err)
	}

	if p.Skip < 0 {
		return p, apperror.NewFieldError("Input should be greater than or equal to 0", "greater_than_equal", "query", "skip")
	}
	if p.Limit < 0 {
		return p, apperror.NewFieldError("Input should be greater than or equal to 0", "greater_than_equal", "query", "limit")
	}
	if p.Limit > MaxLimit {
		return p, apperror.NewFieldError(fmt.Sprintf("Input should be less than or equal to %d", MaxLimit), "less_than_equal", "query", "limit")
	}
	return p, nil
}

// QueryInt64 reads an optional integer query parameter. Returns nil when
// the parameter is absent.
func QueryInt64(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.NewFieldError("Input should be a valid integer", "int_parsing", "query", name)
	}
	return &v, nil
}

// QueryTime reads an optional timestamp query parameter in any of the
// accepted layouts. Returns nil when the parameter is absent.
func QueryTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := timestamp.Parse(raw)
	if err != nil {
		return nil, apperror.NewFieldError("Input should be a valid datetime", "datetime_parsing", "query", name)
	}
	return &t, nil
}

// PathID parses the ":id" route parameter. label names the parameter in
// error detail (e.g. "event_id").
func PathID(c echo.Context, label string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.NewFieldError("Input should be a valid integer", "int_parsing", "path", label)
	}
	return id, nil
}

// queryError converts echo's binder failures into 422 field errors.
func queryError(err error) error {
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		return apperror.NewFieldError("Input should be a valid integer", "int_parsing", "query", bindErr.Field)
	}
	return apperror.NewFieldError("Invalid query parameters", "value_error", "query")
}
