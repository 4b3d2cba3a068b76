// Package logger builds the application's zerolog logger. Development gets
// a human-readable console writer; everything else gets JSON lines suitable
// for log aggregation.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the root logger is built.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Unknown values
	// fall back to info.
	Level string

	// Pretty switches to the console writer.
	Pretty bool

	// Service is attached to every entry as the "service" field.
	Service string

	// Out defaults to os.Stdout.
	Out io.Writer
}

// New returns a root logger configured from opts.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}
