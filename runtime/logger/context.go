package logger

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// Context keys whose values are lifted into every log record.
const (
	// ContextKeyRunID identifies one invocation of the converter.
	ContextKeyRunID contextKey = "run_id"

	// ContextKeyBackend identifies the TTS backend ("gemini", "openai").
	ContextKeyBackend contextKey = "backend"

	// ContextKeyOutput is the final audio path being produced.
	ContextKeyOutput contextKey = "output"

	// ContextKeyDocument is the source document (text file or PDF).
	ContextKeyDocument contextKey = "document"
)

var allContextKeys = []contextKey{
	ContextKeyRunID,
	ContextKeyBackend,
	ContextKeyOutput,
	ContextKeyDocument,
}

// WithRunID returns a new context with the run ID set.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// WithBackend returns a new context with the backend name set.
func WithBackend(ctx context.Context, backend string) context.Context {
	return context.WithValue(ctx, ContextKeyBackend, backend)
}

// WithOutput returns a new context with the output path set.
func WithOutput(ctx context.Context, output string) context.Context {
	return context.WithValue(ctx, ContextKeyOutput, output)
}

// WithDocument returns a new context with the source document set.
func WithDocument(ctx context.Context, document string) context.Context {
	return context.WithValue(ctx, ContextKeyDocument, document)
}

// RunID returns the run ID stored in ctx, if any.
func RunID(ctx context.Context) string {
	s, _ := ctx.Value(ContextKeyRunID).(string)
	return s
}
