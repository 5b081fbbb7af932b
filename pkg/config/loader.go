package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads filename, validates it against the schema and decodes it
// over Default(). Keys absent from the file keep their defaults.
func LoadConfig(filename string) (*Config, error) {
	//nolint:gosec // G304: path comes from the --config flag
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if abs, absErr := filepath.Abs(filename); absErr == nil {
		cfg.ConfigDir = filepath.Dir(abs)
	} else {
		cfg.ConfigDir = filepath.Dir(filename)
	}
	return cfg, nil
}

// Parse validates and decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	// Step 1: JSON Schema validation (structure, types, enum values)
	if err := ValidateConfig(data); err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Step 2: cross-field checks the schema cannot express
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
