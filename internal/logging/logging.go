// Package logging builds the structured logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/nhle/task-checklist/internal/model"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a slog.Logger writing to w in the configured format and level.
// Unknown formats fall back to text; unknown levels fall back to info.
func New(cfg model.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a level name to a slog.Level. "warning" is accepted
// as an alias for "warn"; anything slog does not understand is info.
func ParseLevel(s string) slog.Level {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
