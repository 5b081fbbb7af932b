package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider type constants.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ErrMissingCredential is returned when no API key could be found for a provider.
var ErrMissingCredential = errors.New("credential not set")

// DefaultEnvVars maps provider types to their default environment variable names,
// in lookup order.
var DefaultEnvVars = map[string][]string{
	ProviderGemini: {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	ProviderOpenAI: {"OPENAI_API_KEY"},
}

// providerHeaders maps provider types to their API key header configuration.
var providerHeaders = map[string]struct {
	HeaderName string
	Prefix     string
}{
	ProviderGemini: {HeaderName: "x-goog-api-key", Prefix: ""},
	ProviderOpenAI: {HeaderName: "Authorization", Prefix: "Bearer "},
}

// ResolverConfig holds configuration for credential resolution.
type ResolverConfig struct {
	// ProviderType is the backend type (gemini, openai).
	ProviderType string

	// APIKey is an explicit key value; highest priority.
	APIKey string

	// CredentialFile is a file holding the key.
	CredentialFile string

	// CredentialEnv names an environment variable holding the key.
	CredentialEnv string

	// ConfigDir is the base directory for relative CredentialFile paths.
	ConfigDir string
}

// Resolve resolves an API key credential according to the chain:
//  1. APIKey (explicit value)
//  2. CredentialFile (read from file)
//  3. CredentialEnv (read from environment variable)
//  4. default env vars for the provider type
//
// Unlike optional-auth setups, every backend here needs a key, so an empty
// result is reported as ErrMissingCredential.
func Resolve(cfg ResolverConfig) (*APIKeyCredential, error) {
	apiKey, err := findAPIKey(cfg)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingCredential, strings.Join(envNames(cfg), " or "))
	}
	return createAPIKeyCredential(apiKey, cfg.ProviderType), nil
}

// findAPIKey searches for an API key in the resolution chain.
func findAPIKey(cfg ResolverConfig) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}

	if cfg.CredentialFile != "" {
		key, err := readCredentialFile(cfg.CredentialFile, cfg.ConfigDir)
		if err != nil {
			return "", fmt.Errorf("failed to read credential file: %w", err)
		}
		return key, nil
	}

	if cfg.CredentialEnv != "" {
		return os.Getenv(cfg.CredentialEnv), nil
	}

	for _, envVar := range DefaultEnvVars[cfg.ProviderType] {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}
	}
	return "", nil
}

func envNames(cfg ResolverConfig) []string {
	if cfg.CredentialEnv != "" {
		return []string{cfg.CredentialEnv}
	}
	if names, ok := DefaultEnvVars[cfg.ProviderType]; ok {
		return names
	}
	return []string{"an API key"}
}

// createAPIKeyCredential creates an API key credential with provider-specific config.
func createAPIKeyCredential(apiKey, providerType string) *APIKeyCredential {
	headerCfg, ok := providerHeaders[providerType]
	if !ok {
		return NewAPIKeyCredential(apiKey)
	}
	return NewAPIKeyCredential(apiKey, WithHeaderName(headerCfg.HeaderName), WithPrefix(headerCfg.Prefix))
}

// readCredentialFile reads an API key from a file.
func readCredentialFile(path, configDir string) (string, error) {
	if !filepath.IsAbs(path) && configDir != "" {
		path = filepath.Join(configDir, path)
	}

	//nolint:gosec // G304: File path is from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
