// Package logger builds the application's slog.Logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options selects the output of New.
type Options struct {
	Writer io.Writer
	Level  string // debug | info | warn | error
	Format string // text | json
	Color  bool   // colourize text output with tint
}

// New returns a logger writing to opts.Writer (stdout by default).  JSON
// output is meant for production; text output uses tint so local logs
// stay readable.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	level := ParseLevel(opts.Level)

	var h slog.Handler
	switch {
	case strings.EqualFold(opts.Format, "json"):
		h = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: level})
	default:
		h = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    !opts.Color,
		})
	}
	return slog.New(h)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
