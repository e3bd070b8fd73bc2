package logging

import (
	"io"
	"log/slog"
	"strings"
)

const (
	// FormatJSON emits one JSON object per record.
	FormatJSON = "json"
	// FormatText emits logfmt-style key=value records.
	FormatText = "text"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
}

// NewLogger creates a new slog.Logger writing to w.
// The level is parsed from the config and defaults to INFO if invalid or empty.
// Format selects the handler; anything other than "text" uses JSON.
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       parseLevel(config.Level),
		ReplaceAttr: nil,
	}

	if strings.EqualFold(config.Format, FormatText) {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// ValidFormat reports whether format names a supported handler. Empty means JSON.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", FormatJSON, FormatText:
		return true
	default:
		return false
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
