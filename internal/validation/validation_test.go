package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/chronospace/internal/apperror"
)

type sample struct {
	Name       string  `json:"name" validate:"required,notblank,max=10"`
	Color      *string `json:"color" validate:"omitnil,hexcolor6"`
	Importance *int    `json:"importance" validate:"omitnil,min=1,max=5"`
	Date       string  `json:"date" validate:"required,timestamp"`
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// fieldErrors unwraps a 422 apperror into its field list.
func fieldErrors(t *testing.T, err error) []apperror.FieldError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %T", err)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	return appErr.Fields
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(&sample{Name: "Politics", Color: strPtr("#A1b2C3"), Importance: intPtr(5), Date: "1989-11-09"})
	assert.NoError(t, err)
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(&sample{Name: "  ", Color: strPtr("red"), Importance: intPtr(0), Date: "not-a-date"})
	fields := fieldErrors(t, err)

	byField := map[string]apperror.FieldError{}
	for _, f := range fields {
		require.Equal(t, "body", f.Loc[0])
		byField[f.Loc[len(f.Loc)-1]] = f
	}
	assert.Equal(t, "missing", byField["name"].Type)
	assert.Equal(t, "string_pattern_mismatch", byField["color"].Type)
	assert.Equal(t, "greater_than_equal", byField["importance"].Type)
	assert.Equal(t, "datetime_parsing", byField["date"].Type)
}

func TestStruct_StringAndNumberBounds(t *testing.T) {
	err := Struct(&sample{Name: "far too long a name", Importance: intPtr(6), Date: "1989-11-09"})
	fields := fieldErrors(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, []string{"body", "name"}, fields[0].Loc)
	assert.Equal(t, "string_too_long", fields[0].Type)
	assert.Equal(t, "less_than_equal", fields[1].Type)
}

func TestStruct_ShortColorRejected(t *testing.T) {
	err := Struct(&sample{Name: "x", Color: strPtr("#fff"), Date: "1989-11-09"})
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"body", "color"}, fields[0].Loc)
}

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	var dst sample
	c := newContext(http.MethodPost, "/", `{"name":"Politics","date":"1989-11-09T00:00:00Z"}`)
	require.NoError(t, BindAndValidate(c, &dst))
	assert.Equal(t, "Politics", dst.Name)
	assert.Nil(t, dst.Importance)
}

func TestBindAndValidate_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLoc []string
		typ     string
	}{
		{"empty body", "", []string{"body"}, "missing"},
		{"syntax", `{"name":`, []string{"body"}, "json_invalid"},
		{"wrong type", `{"name":"x","importance":"high","date":"1989-11-09"}`, []string{"body", "importance"}, "int_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst sample
			fields := fieldErrors(t, BindAndValidate(newContext(http.MethodPost, "/", tt.body), &dst))
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantLoc, fields[0].Loc)
			assert.Equal(t, tt.typ, fields[0].Type)
		})
	}
}

func TestBindPage(t *testing.T) {
	p, err := BindPage(newContext(http.MethodGet, "/", ""))
	require.NoError(t, err)
	assert.Equal(t, Page{Skip: 0, Limit: 100}, p)

	p, err = BindPage(newContext(http.MethodGet, "/?skip=20&limit=5", ""))
	require.NoError(t, err)
	assert.Equal(t, Page{Skip: 20, Limit: 5}, p)
}

func TestBindPage_Invalid(t *testing.T) {
	for _, target := range []string{"/?skip=abc", "/?skip=-1", "/?limit=-5", "/?limit=5000"} {
		t.Run(target, func(t *testing.T) {
			_, err := BindPage(newContext(http.MethodGet, target, ""))
			fields := fieldErrors(t, err)
			assert.Equal(t, "query", fields[0].Loc[0])
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	c := newContext(http.MethodGet, "/?epoch_id=3&start_date=1989-01-01&bad=x", "")

	id, err := QueryInt64(c, "epoch_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.EqualValues(t, 3, *id)

	missing, err := QueryInt64(c, "category_id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryInt64(c, "bad")
	assert.Equal(t, []string{"query", "bad"}, fieldErrors(t, err)[0].Loc)

	start, err := QueryTime(c, "start_date")
	require.NoError(t, err)
	assert.Equal(t, 1989, start.Year())

	_, err = QueryTime(c, "bad")
	assert.Equal(t, "datetime_parsing", fieldErrors(t, err)[0].Type)
}

func TestPathID(t *testing.T) {
	c := newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := PathID(c, "event_id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	c.SetParamValues("abc")
	_, err = PathID(c, "event_id")
	assert.Equal(t, []string{"path", "event_id"}, fieldErrors(t, err)[0].Loc)
}
