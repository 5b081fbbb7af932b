// Package pipeline drives a conversion: text is split into chunks, each
// chunk is synthesized in order by one TTS backend, the PCM is accumulated,
// and the result is written as a single audio file.
//
// Chunks are processed strictly sequentially. The next backend call is not
// issued until the previous chunk's PCM has been appended. Any chunk failure
// aborts the run and nothing is written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	pkgerrors "github.com/itai-levin/paper-to-audio/pkg/errors"
	"github.com/itai-levin/paper-to-audio/runtime/audio"
	"github.com/itai-levin/paper-to-audio/runtime/chunker"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
	"github.com/itai-levin/paper-to-audio/runtime/metrics/prometheus"
	"github.com/itai-levin/paper-to-audio/runtime/tts"
)

const component = "pipeline"

// Conversion errors.
var (
	// ErrNoChunks is returned when the input text has nothing to narrate.
	ErrNoChunks = errors.New("input text produced no chunks")

	// ErrEmptySynthesis is returned when a backend call succeeds but yields
	// no audio for a chunk.
	ErrEmptySynthesis = errors.New("backend returned no audio for chunk")
)

// Writer encodes accumulated PCM into an output file. *audio.Assembler
// implements it.
type Writer interface {
	Preflight(format audio.OutputFormat) error
	Write(ctx context.Context, pcm []byte, spec audio.OutputSpec) (string, error)
}

// Result describes a completed conversion.
type Result struct {
	// Path is the written audio file.
	Path string
	// Chunks is the number of chunks synthesized.
	Chunks int
	// PCMBytes is the size of the accumulated PCM.
	PCMBytes int
	// Duration is the playback length of the output.
	Duration time.Duration
}

// Converter wires a chunker, a TTS backend and a Writer together.
type Converter struct {
	service    tts.Service
	writer     Writer
	chunkLimit int
	limiter    *rate.Limiter
	metrics    *prometheus.Recorder
	tracer     trace.Tracer
}

// Option configures a Converter.
type Option func(*Converter)

// WithChunkLimit sets the per-chunk character limit.
// Values below 1 keep chunker.DefaultLimit.
func WithChunkLimit(limit int) Option {
	return func(c *Converter) {
		if limit > 0 {
			c.chunkLimit = limit
		}
	}
}

// WithRateLimit paces backend calls to at most limit requests per second.
// rate.Inf or a non-positive limit disables pacing. Pacing only delays calls;
// nothing is retried.
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Converter) {
		if limit <= 0 || limit == rate.Inf {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// WithMetrics records per-chunk and per-run metrics.
func WithMetrics(recorder *prometheus.Recorder) Option {
	return func(c *Converter) {
		c.metrics = recorder
	}
}

// WithTracer records a span per run and per backend call.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Converter) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewConverter creates a converter for one backend and writer.
func NewConverter(service tts.Service, writer Writer, opts ...Option) *Converter {
	c := &Converter{
		service:    service,
		writer:     writer,
		chunkLimit: chunker.DefaultLimit,
		tracer:     noop.NewTracerProvider().Tracer(component),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkLimit returns the configured character limit.
func (c *Converter) ChunkLimit() int {
	return c.chunkLimit
}

// Convert narrates text into spec. The output format is checked before any
// backend call so a missing encoder fails fast.
func (c *Converter) Convert(ctx context.Context, text string, spec audio.OutputSpec) (result *Result, err error) {
	start := time.Now()
	ctx = logger.WithBackend(ctx, c.service.Name())
	ctx = logger.WithOutput(ctx, spec.Path())

	ctx, span := c.tracer.Start(ctx, "narrate.convert", trace.WithAttributes(
		attribute.String("backend", c.service.Name()),
		attribute.String("output.format", string(spec.Format)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if c.metrics != nil {
			var length time.Duration
			if result != nil {
				length = result.Duration
			}
			c.metrics.RecordRun(time.Since(start), length, err)
		}
	}()

	if err := c.writer.Preflight(spec.Format); err != nil {
		return nil, err
	}

	chunks := narratable(chunker.Split(text, c.chunkLimit))
	if len(chunks) == 0 {
		return nil, pkgerrors.NewConfig(component, "Convert", ErrNoChunks)
	}
	span.SetAttributes(attribute.Int("chunks", len(chunks)))
	logger.InfoContext(ctx, "Starting conversion", "chunks", len(chunks), "chunk_limit", c.chunkLimit)

	buf := audio.NewBuffer(audio.DefaultFormat)
	for i, chunk := range chunks {
		pcm, err := c.synthesizeChunk(ctx, i, len(chunks), chunk)
		if err != nil {
			return nil, err
		}
		buf.Append(pcm)
	}

	path, err := c.writer.Write(ctx, buf.Bytes(), spec)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:     path,
		Chunks:   len(chunks),
		PCMBytes: buf.Len(),
		Duration: buf.Duration(),
	}, nil
}

func (c *Converter) synthesizeChunk(ctx context.Context, index, total int, chunk string) ([]byte, error) {
	chars := utf8.RuneCountInString(chunk)
	details := map[string]any{"chunk": index + 1, "total": total}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, pkgerrors.New(component, "Wait", err).WithDetails(details)
		}
	}

	logger.ChunkProgress(ctx, index+1, total, chars)

	ctx, span := c.tracer.Start(ctx, "tts.synthesize", trace.WithAttributes(
		attribute.Int("chunk.index", index),
		attribute.Int("chunk.chars", chars),
	))
	defer span.End()

	callStart := time.Now()
	pcm, err := c.service.Synthesize(ctx, chunk)
	elapsed := time.Since(callStart)

	if err == nil && len(pcm) == 0 {
		err = ErrEmptySynthesis
	}
	if c.metrics != nil {
		c.metrics.RecordChunk(c.service.Name(), chars, len(pcm), elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.BackendError(ctx, c.service.Name(), err, "chunk", index+1, "total", total)
		return nil, pkgerrors.NewBackend(component, "Synthesize",
			fmt.Errorf("chunk %d/%d: %w", index+1, total, err)).WithDetails(details)
	}

	span.SetAttributes(attribute.Int("pcm.bytes", len(pcm)))
	logger.DebugContext(ctx, "Chunk synthesized",
		"chunk", index+1,
		"bytes", len(pcm),
		"elapsed", elapsed.String(),
	)
	return pcm, nil
}

// narratable drops chunks made only of blank lines; backends reject them.
func narratable(chunks []string) []string {
	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}
