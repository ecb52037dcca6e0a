// Package logging builds the application logger: human-readable output on
// stderr, optionally fanned out to a rotating JSON log file.
package logging

import (
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger built by New.
type Options struct {
	Level   string // "debug", "info", "warn", "error"
	File    string // rotating log file path, empty disables file output
	MaxSize int    // MB per log file before rotation
	MaxAge  int    // days to keep rotated files
	Quiet   bool   // suppress console output, file only
}

// New builds the logger. With neither console nor file output enabled the
// returned logger discards everything.
func New(opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	var handlers []slog.Handler
	if !opts.Quiet {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  opts.MaxSize,
			MaxAge:   opts.MaxAge,
			Compress: true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotating, &slog.HandlerOptions{
			Level: level,
		}))
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.DiscardHandler)
	case 1:
		return slog.New(handlers[0])
	default:
		return slog.New(slogmulti.Fanout(handlers...))
	}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
