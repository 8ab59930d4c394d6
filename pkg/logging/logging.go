// Package logging configures structured logging for the todo service.
//
// Usage:
//
//	logging.Setup()                          // level from LOG_LEVEL env, colored text
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//	logging.Configure("info", "json")        // level and format from configuration
//
// The todo command calls Setup before anything else so that configuration
// errors are logged, then Configure once the configuration is loaded.
//
// The text format uses tint for colored output on a terminal. The json format
// writes one object per line with UTC timestamps, for log collectors.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level, FormatText))
}

// Configure installs the default logger from configuration values. The text
// format is the same colored logger SetupWithLevel installs.
func Configure(level, format string) {
	if !strings.EqualFold(format, FormatJSON) {
		SetupWithLevel(ParseLevel(level))
		return
	}
	slog.SetDefault(New(os.Stderr, ParseLevel(level), format))
}

// New builds a logger writing to w.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Time(a.Key, a.Value.Time().UTC())
				}
				return a
			},
		}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else
// is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
