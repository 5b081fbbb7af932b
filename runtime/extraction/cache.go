// Package extraction turns a PDF into narratable text with a single LLM call
// and caches the result in a plain-text sidecar next to the audio output.
//
// The sidecar's existence is the only cache-hit signal. There is no
// invalidation, hashing or expiry: delete the .txt file to extract again.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "github.com/itai-levin/paper-to-audio/pkg/errors"
	"github.com/itai-levin/paper-to-audio/runtime/audio"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
	"github.com/itai-levin/paper-to-audio/runtime/storage/local"
)

const component = "extraction"

// TextExtension is the extension of cached text sidecars.
const TextExtension = ".txt"

// Document is a source document sent to an Extractor.
type Document struct {
	// Name is the file name reported to the model.
	Name string
	// Data is the raw PDF content.
	Data []byte
}

// Extractor produces narratable text from a document.
type Extractor interface {
	Extract(ctx context.Context, doc Document, prompt string) (string, error)
}

// Request describes one GetOrExtract call.
type Request struct {
	// PDFPath is the source document.
	PDFPath string
	// OutputAudioPath is the intended audio output; the sidecar is derived
	// from it unless TextPath is set.
	OutputAudioPath string
	// Prompt overrides DefaultPrompt when non-empty.
	Prompt string
	// TextPath overrides the derived sidecar path when non-empty.
	TextPath string
}

// Result is the outcome of GetOrExtract.
type Result struct {
	Text     string
	TextPath string
	Cached   bool
}

// Cache wraps an Extractor with a file-existence cache.
type Cache struct {
	extractor Extractor
}

// NewCache creates a cache in front of extractor.
func NewCache(extractor Extractor) *Cache {
	return &Cache{extractor: extractor}
}

// TextPathFor returns the sidecar path for an audio output path: a known
// audio extension is replaced with .txt, otherwise .txt is appended.
// Unlike a generic suffix swap, any other dotted tail is kept, so
// "paper.v2" maps to "paper.v2.txt" rather than "paper.txt".
func TextPathFor(outputAudioPath string) string {
	return audio.ReplaceExtension(outputAudioPath, TextExtension)
}

// GetOrExtract returns cached text for req if the sidecar exists. Otherwise
// it extracts text from the PDF, persists it to the sidecar, and returns it.
func (c *Cache) GetOrExtract(ctx context.Context, req Request) (*Result, error) {
	textPath := req.TextPath
	if textPath == "" {
		textPath = TextPathFor(req.OutputAudioPath)
	}
	ctx = logger.WithDocument(ctx, req.PDFPath)

	cached, err := local.Exists(textPath)
	if err != nil {
		return nil, pkgerrors.NewIO(component, "CheckCache", err)
	}
	if cached {
		//nolint:gosec // G304: path comes from operator configuration
		data, readErr := os.ReadFile(textPath)
		if readErr != nil {
			return nil, pkgerrors.NewIO(component, "ReadCache", readErr)
		}
		logger.InfoContext(ctx, "Using cached extracted text", "path", textPath)
		return &Result{Text: string(data), TextPath: textPath, Cached: true}, nil
	}

	//nolint:gosec // G304: path comes from operator configuration
	pdf, err := os.ReadFile(req.PDFPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.NewConfig(component, "ReadDocument",
				fmt.Errorf("PDF not found: %s", req.PDFPath))
		}
		return nil, pkgerrors.NewIO(component, "ReadDocument", err)
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	if c.extractor == nil {
		return nil, pkgerrors.NewConfig(component, "Extract", errors.New("no extractor configured"))
	}

	logger.InfoContext(ctx, "Extracting text from PDF", "bytes", len(pdf))
	text, err := c.extractor.Extract(ctx, Document{Name: filepath.Base(req.PDFPath), Data: pdf}, prompt)
	if err != nil {
		return nil, pkgerrors.NewBackend(component, "Extract", err)
	}

	if err := local.WriteFileAtomic(textPath, []byte(text), local.DefaultFilePermissions); err != nil {
		return nil, pkgerrors.NewIO(component, "WriteCache", err)
	}
	logger.InfoContext(ctx, "Saved extracted text", "path", textPath, "chars", len(text))

	return &Result{Text: text, TextPath: textPath}, nil
}
