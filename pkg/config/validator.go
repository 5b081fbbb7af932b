package config

import (
	"errors"
	"strconv"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return "config validation error: " + e.Field + ": " + e.Message + " (got: " + e.Value + ")"
	}
	return "config validation error: " + e.Field + ": " + e.Message
}

// Validate checks the resolved configuration. It runs after environment and
// flag overrides too, so it repeats the schema's enum and range checks.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendGemini, BackendOpenAI:
	default:
		errs = append(errs, &ValidationError{
			Field:   "backend",
			Message: "must be one of: gemini, openai",
			Value:   c.Backend,
		})
	}

	switch c.Format {
	case FormatWAV, FormatMP3:
	default:
		errs = append(errs, &ValidationError{
			Field:   "format",
			Message: "must be one of: wav, mp3",
			Value:   c.Format,
		})
	}

	if c.ChunkLimit < 1 {
		errs = append(errs, &ValidationError{
			Field:   "chunk_limit",
			Message: "must be at least 1",
			Value:   strconv.Itoa(c.ChunkLimit),
		})
	}

	if c.Out == "" {
		errs = append(errs, &ValidationError{Field: "out", Message: "must not be empty"})
	}

	if c.RequestsPerMinute < 0 {
		errs = append(errs, &ValidationError{
			Field:   "requests_per_minute",
			Message: "must not be negative",
			Value:   strconv.Itoa(c.RequestsPerMinute),
		})
	}

	if c.FFmpeg.TimeoutSeconds < 0 {
		errs = append(errs, &ValidationError{
			Field:   "ffmpeg.timeout_seconds",
			Message: "must not be negative",
			Value:   strconv.Itoa(c.FFmpeg.TimeoutSeconds),
		})
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
