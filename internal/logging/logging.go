// Package logging sets up the process logger and carries it in contexts.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a plain console logger writing to w at the named level. An
// empty or unknown level means info.
func New(w io.Writer, level string) zerolog.Logger {
	return console(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}, level)
}

// Default returns a colored console logger on stderr at the named level.
func Default(level string) zerolog.Logger {
	return console(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}, level)
}

func console(out zerolog.ConsoleWriter, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log zerolog.Logger) context.Context {
	return log.WithContext(ctx)
}

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
