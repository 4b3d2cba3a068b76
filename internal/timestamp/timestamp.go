// Package timestamp parses the absolute timestamps accepted on the wire.
// Values without a zone are taken as UTC, and everything is normalized to
// UTC before it reaches storage.
package timestamp

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalid is returned for values that match none of the accepted layouts.
var ErrInvalid = errors.New("invalid timestamp")

// zoned layouts carry their own offset.
var zoned = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

// naive layouts are interpreted in UTC.
var naive = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse accepts RFC 3339, a naive "YYYY-MM-DDTHH:MM:SS[.ffffff]" or a
// bare "YYYY-MM-DD" (midnight), and returns the instant in UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalid
	}
	for _, layout := range zoned {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naive {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalid
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Storage normalizes t to UTC at microsecond precision, the finest both
// MySQL DATETIME(6) and SQLite keep, so a stored value reads back equal.
func Storage(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
