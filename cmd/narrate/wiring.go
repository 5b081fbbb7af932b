package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/itai-levin/paper-to-audio/pkg/config"
	pkgerrors "github.com/itai-levin/paper-to-audio/pkg/errors"
	"github.com/itai-levin/paper-to-audio/pkg/httputil"
	"github.com/itai-levin/paper-to-audio/runtime/audio"
	"github.com/itai-levin/paper-to-audio/runtime/credentials"
	"github.com/itai-levin/paper-to-audio/runtime/extraction"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
	"github.com/itai-levin/paper-to-audio/runtime/media"
	"github.com/itai-levin/paper-to-audio/runtime/metrics/prometheus"
	"github.com/itai-levin/paper-to-audio/runtime/pipeline"
	"github.com/itai-levin/paper-to-audio/runtime/storage/local"
	"github.com/itai-levin/paper-to-audio/runtime/telemetry"
	"github.com/itai-levin/paper-to-audio/runtime/tts"
	"github.com/itai-levin/paper-to-audio/runtime/version"
)

// runtimeDeps are the process-wide collaborators of one run.
type runtimeDeps struct {
	cfg      *config.Config
	client   *http.Client
	metrics  *prometheus.Recorder
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

// newRuntime configures logging and telemetry for cfg and tags ctx with a
// fresh run ID.
func newRuntime(ctx context.Context, cfg *config.Config) (context.Context, *runtimeDeps, error) {
	logger.Configure(&logger.LoggingConfigSpec{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx = logger.WithRunID(ctx, uuid.NewString())
	logger.DebugContext(ctx, "Starting narrate", version.BuildAttrs()...)

	tracer, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return ctx, nil, pkgerrors.NewConfig(component, "SetupTelemetry", err)
	}

	return ctx, &runtimeDeps{
		cfg:      cfg,
		client:   telemetry.NewHTTPClient(httputil.DefaultExtractionTimeout),
		metrics:  prometheus.NewRecorder(false),
		tracer:   tracer,
		shutdown: shutdown,
	}, nil
}

// close flushes telemetry and writes the metrics textfile. Failures here are
// logged; they never change the run's outcome.
func (r *runtimeDeps) close(ctx context.Context) {
	if path := r.cfg.Metrics.Textfile; path != "" {
		if err := r.metrics.WriteTextfile(path); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics textfile", "path", path, "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.shutdown(shutdownCtx); err != nil {
		logger.WarnContext(ctx, "Failed to flush traces", "error", err)
	}
}

// resolveCredential maps a missing key to a configuration error.
func resolveCredential(provider, envName, file, configDir string) (*credentials.APIKeyCredential, error) {
	cred, err := credentials.Resolve(credentials.ResolverConfig{
		ProviderType:   provider,
		CredentialEnv:  envName,
		CredentialFile: file,
		ConfigDir:      configDir,
	})
	if err != nil {
		return nil, pkgerrors.NewConfig(component, "ResolveCredential",
			fmt.Errorf("%s backend: %w", provider, err))
	}
	return cred, nil
}

// newSpeechService builds the configured TTS backend. The backend is fixed
// for the whole run.
func (r *runtimeDeps) newSpeechService() (tts.Service, error) {
	cfg := r.cfg
	switch cfg.Backend {
	case config.BackendGemini:
		cred, err := resolveCredential(credentials.ProviderGemini,
			cfg.Gemini.APIKeyEnv, cfg.Gemini.CredentialFile, cfg.ConfigDir)
		if err != nil {
			return nil, err
		}
		opts := []tts.GeminiOption{tts.WithGeminiClient(r.client)}
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, tts.WithGeminiBaseURL(cfg.Gemini.BaseURL))
		}
		if cfg.Gemini.Model != "" {
			opts = append(opts, tts.WithGeminiModel(cfg.Gemini.Model))
		}
		if cfg.Gemini.Voice != "" {
			opts = append(opts, tts.WithGeminiVoice(cfg.Gemini.Voice))
		}
		if cfg.Gemini.Prefix != "" {
			opts = append(opts, tts.WithGeminiPrefix(cfg.Gemini.Prefix))
		}
		return tts.NewGemini(cred, opts...), nil

	case config.BackendOpenAI:
		cred, err := resolveCredential(credentials.ProviderOpenAI,
			cfg.OpenAI.APIKeyEnv, cfg.OpenAI.CredentialFile, cfg.ConfigDir)
		if err != nil {
			return nil, err
		}
		opts := []tts.OpenAIOption{tts.WithOpenAIClient(r.client)}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, tts.WithOpenAIBaseURL(cfg.OpenAI.BaseURL))
		}
		if cfg.OpenAI.Model != "" {
			opts = append(opts, tts.WithOpenAIModel(cfg.OpenAI.Model))
		}
		if cfg.OpenAI.Voice != "" {
			opts = append(opts, tts.WithOpenAIVoice(cfg.OpenAI.Voice))
		}
		if cfg.OpenAI.Instructions != "" {
			opts = append(opts, tts.WithOpenAIInstructions(cfg.OpenAI.Instructions))
		}
		return tts.NewOpenAI(cred, opts...), nil

	default:
		return nil, pkgerrors.NewConfig(component, "NewSpeechService",
			fmt.Errorf("unknown backend %q", cfg.Backend))
	}
}

func (r *runtimeDeps) newExtractor() (*extraction.OpenAIExtractor, error) {
	cfg := r.cfg.Extraction
	cred, err := resolveCredential(credentials.ProviderOpenAI, cfg.APIKeyEnv, cfg.CredentialFile, r.cfg.ConfigDir)
	if err != nil {
		return nil, err
	}
	opts := []extraction.OpenAIOption{extraction.WithHTTPClient(r.client)}
	if cfg.BaseURL != "" {
		opts = append(opts, extraction.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, extraction.WithModel(cfg.Model))
	}
	return extraction.NewOpenAIExtractor(cred, opts...), nil
}

func (r *runtimeDeps) newAssembler() *audio.Assembler {
	return audio.NewAssembler(media.NewAudioConverter(media.AudioConverterConfig{
		FFmpegPath:    r.cfg.FFmpeg.Path,
		FFmpegTimeout: r.cfg.FFmpeg.TimeoutSeconds,
		SampleRate:    audio.DefaultFormat.SampleRate,
		Channels:      audio.DefaultFormat.Channels,
		BitRate:       r.cfg.FFmpeg.Bitrate,
	}))
}

func (r *runtimeDeps) newConverter(service tts.Service, writer pipeline.Writer) *pipeline.Converter {
	opts := []pipeline.Option{
		pipeline.WithChunkLimit(r.cfg.ChunkLimit),
		pipeline.WithMetrics(r.metrics),
		pipeline.WithTracer(r.tracer),
	}
	if rpm := r.cfg.RequestsPerMinute; rpm > 0 {
		opts = append(opts, pipeline.WithRateLimit(rate.Every(time.Minute/time.Duration(rpm))))
	}
	return pipeline.NewConverter(service, writer, opts...)
}

func outputSpec(cfg *config.Config) (audio.OutputSpec, error) {
	format, err := audio.ParseOutputFormat(cfg.Format)
	if err != nil {
		return audio.OutputSpec{}, pkgerrors.NewConfig(component, "OutputFormat", err)
	}
	return audio.OutputSpec{BasePath: cfg.Out, Format: format}, nil
}

// requireInputFile checks that a required input exists without reading it.
func requireInputFile(kind, path string) error {
	ok, err := local.Exists(path)
	if err != nil {
		return pkgerrors.NewIO(component, "CheckInput", err)
	}
	if !ok {
		return pkgerrors.NewConfig(component, "CheckInput", fmt.Errorf("%s not found: %s", kind, path))
	}
	return nil
}

// readInputFile reads a required input. A missing file is a configuration
// error.
func readInputFile(kind, path string) ([]byte, error) {
	if path == "" {
		return nil, pkgerrors.NewConfig(component, "ReadInput", fmt.Errorf("--%s is required", kind))
	}
	//nolint:gosec // G304: path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.NewConfig(component, "ReadInput",
				fmt.Errorf("%s not found: %s", kind, path))
		}
		return nil, pkgerrors.NewIO(component, "ReadInput", err)
	}
	return data, nil
}
