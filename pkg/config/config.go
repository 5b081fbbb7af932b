// Package config loads narrate configuration files.
//
// A configuration file is optional. When present it is YAML, validated
// against an embedded JSON schema before decoding, and layered over
// Default(). Environment variables and command-line flags are applied on top
// by the CLI.
package config

// Backend names.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Output formats.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// Default values for top-level settings.
const (
	DefaultBackend    = BackendGemini
	DefaultChunkLimit = 10000
	DefaultFormat     = FormatWAV
	DefaultOut        = "saved_paper"
)

// Config is the complete narrate configuration. Empty backend fields mean
// the backend's own default.
type Config struct {
	Backend           string           `yaml:"backend"`
	ChunkLimit        int              `yaml:"chunk_limit"`
	Format            string           `yaml:"format"`
	Out               string           `yaml:"out"`
	RequestsPerMinute int              `yaml:"requests_per_minute"`
	Gemini            GeminiConfig     `yaml:"gemini"`
	OpenAI            OpenAIConfig     `yaml:"openai"`
	Extraction        ExtractionConfig `yaml:"extraction"`
	FFmpeg            FFmpegConfig     `yaml:"ffmpeg"`
	Logging           LoggingConfig    `yaml:"logging"`
	Telemetry         TelemetryConfig  `yaml:"telemetry"`
	Metrics           MetricsConfig    `yaml:"metrics"`

	// ConfigDir is the directory of the loaded file, used to resolve
	// relative credential files. Empty when no file was loaded.
	ConfigDir string `yaml:"-"`
}

// GeminiConfig configures the inline-audio backend.
type GeminiConfig struct {
	Model          string `yaml:"model"`
	Voice          string `yaml:"voice"`
	Prefix         string `yaml:"prefix"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	CredentialFile string `yaml:"credential_file"`
}

// OpenAIConfig configures the container-audio backend.
type OpenAIConfig struct {
	Model          string `yaml:"model"`
	Voice          string `yaml:"voice"`
	Instructions   string `yaml:"instructions"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	CredentialFile string `yaml:"credential_file"`
}

// ExtractionConfig configures PDF text extraction.
type ExtractionConfig struct {
	Model          string `yaml:"model"`
	Prompt         string `yaml:"prompt"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	CredentialFile string `yaml:"credential_file"`
}

// FFmpegConfig configures the external encoder used for MP3 output.
type FFmpegConfig struct {
	Path           string `yaml:"path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// Bitrate overrides the constant MP3 bitrate. Empty keeps 192k.
	Bitrate string `yaml:"bitrate"`
}

// TelemetryConfig enables OTLP trace export when OTLPEndpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

// MetricsConfig enables writing a Prometheus textfile at the end of a run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend:    DefaultBackend,
		ChunkLimit: DefaultChunkLimit,
		Format:     DefaultFormat,
		Out:        DefaultOut,
		Logging:    DefaultLoggingConfig(),
	}
}
