package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// LogLevel honours LOG_LEVEL and defaults to debug in development.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if Development() {
		level = slog.LevelDebug
	}
	if s, ok := os.LookupEnv("LOG_LEVEL"); ok {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err == nil {
			level = l
		}
	}
	return level
}

// NewLogger writes colored text in development and JSON otherwise.
func NewLogger(w io.Writer) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: LogLevel(),
	})
	if Development() {
		handler = tint.NewHandler(w, &tint.Options{
			Level: LogLevel(),
		})
	}
	return slog.New(handler)
}
