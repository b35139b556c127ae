// Package logger builds the slog logger used across sunloc.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1F47E/sun-locator/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New constructs a logger from the log configuration. Output goes to stderr,
// or to a size-rotated file when one is configured. The returned closer
// releases the file and is safe to call when there is none.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	var out io.WriteCloser = nopCloser{os.Stderr}
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
	}
	return NewWithWriter(out, cfg.Format, cfg.Level), out
}

// NewWithWriter constructs a text or JSON logger writing to w
func NewWithWriter(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("app", "sunloc")
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
