package logger

import "log/slog"

// Log format constants
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggingConfigSpec defines the logging configuration for the Configure function.
// This mirrors config.LoggingConfig to avoid import cycles.
type LoggingConfigSpec struct {
	Level  string
	Format string // "json" or "text"
}

// Configure applies a LoggingConfigSpec to the global logger.
func Configure(cfg *LoggingConfigSpec) {
	if cfg == nil {
		return
	}

	level := slog.LevelInfo
	if cfg.Level != "" {
		level = ParseLevel(cfg.Level)
	}

	initLogger(level, cfg.Format == FormatJSON)
}
