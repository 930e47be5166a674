package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Matching is case-insensitive; "warning" is accepted for warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New builds a logger writing to w. Format "json" uses slog's JSON handler;
// "text" or an empty format uses the ColorHandler.
func New(format string, level slog.Level, w io.Writer, opts ...HandlerOption) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	case "", FormatText:
		opts = append([]HandlerOption{WithLevel(level)}, opts...)
		return slog.New(NewHandler(w, opts...)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}
