package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggingConfig(t *testing.T) {
	cfg := DefaultLoggingConfig()

	assert.Equal(t, LogLevelInfo, cfg.Level)
	assert.Equal(t, LogFormatText, cfg.Format)
}

func TestLoggingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  LoggingConfig
		wantErr string
	}{
		{name: "empty config is valid", config: LoggingConfig{}},
		{name: "valid config", config: LoggingConfig{Level: LogLevelDebug, Format: LogFormatJSON}},
		{name: "all levels", config: LoggingConfig{Level: LogLevelError}},
		{name: "invalid level", config: LoggingConfig{Level: "verbose"}, wantErr: "logging.level"},
		{name: "invalid format", config: LoggingConfig{Format: "xml"}, wantErr: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	withValue := &ValidationError{Field: "format", Message: "must be one of: wav, mp3", Value: "ogg"}
	assert.Equal(t, "config validation error: format: must be one of: wav, mp3 (got: ogg)", withValue.Error())

	withoutValue := &ValidationError{Field: "out", Message: "must not be empty"}
	assert.Equal(t, "config validation error: out: must not be empty", withoutValue.Error())
}
