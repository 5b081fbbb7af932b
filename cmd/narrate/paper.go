package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/itai-levin/paper-to-audio/pkg/errors"
	"github.com/itai-levin/paper-to-audio/runtime/extraction"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
	"github.com/itai-levin/paper-to-audio/runtime/storage/local"
)

func (c *cli) paperCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paper --pdf <file>",
		Short: "Extract narratable text from a PDF and narrate it",
		Long: `paper extracts the narratable text of a research paper with a document-capable
model, caches it next to the audio output as <out>.txt, and narrates it.
An existing <out>.txt is reused without contacting the extraction model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runPaper(cmd)
		},
	}
	addExtractionFlags(cmd)
	return cmd
}

func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagPDF, "", "PDF document to extract text from (required)")
	cmd.Flags().String(flagPrompt, "", "Extraction prompt (default: built-in narrator prompt)")
	cmd.Flags().String(flagTxt, "", "Extracted text path (default <out>.txt)")
}

// extractionRequest reads the extraction flags and applies config defaults.
func (c *cli) extractionRequest(cmd *cobra.Command, outputAudioPath, promptDefault string) (extraction.Request, error) {
	pdf, err := cmd.Flags().GetString(flagPDF)
	if err != nil {
		return extraction.Request{}, err
	}
	if pdf == "" {
		return extraction.Request{}, pkgerrors.NewConfig(component, "ReadInput",
			fmt.Errorf("--%s is required", flagPDF))
	}
	prompt, err := cmd.Flags().GetString(flagPrompt)
	if err != nil {
		return extraction.Request{}, err
	}
	if prompt == "" {
		prompt = promptDefault
	}
	txt, err := cmd.Flags().GetString(flagTxt)
	if err != nil {
		return extraction.Request{}, err
	}

	req := extraction.Request{
		PDFPath:         pdf,
		OutputAudioPath: outputAudioPath,
		Prompt:          prompt,
		TextPath:        txt,
	}
	if req.TextPath == "" {
		req.TextPath = extraction.TextPathFor(outputAudioPath)
	}
	return req, nil
}

// newCache builds an extraction cache. The extraction credential is only
// required when the sidecar does not exist yet.
func (r *runtimeDeps) newCache(req extraction.Request) (*extraction.Cache, error) {
	cached, err := local.Exists(req.TextPath)
	if err != nil {
		return nil, pkgerrors.NewIO(component, "CheckCache", err)
	}
	if cached {
		return extraction.NewCache(nil), nil
	}
	extractor, err := r.newExtractor()
	if err != nil {
		return nil, err
	}
	return extraction.NewCache(extractor), nil
}

// runPaper validates every input (PDF, credentials, encoder) before the
// first network call, then extracts and narrates.
func (c *cli) runPaper(cmd *cobra.Command) error {
	cfg, err := c.loadSettings()
	if err != nil {
		return err
	}
	spec, err := outputSpec(cfg)
	if err != nil {
		return err
	}
	req, err := c.extractionRequest(cmd, spec.Path(), cfg.Extraction.Prompt)
	if err != nil {
		return err
	}
	if err := requireInputFile(flagPDF, req.PDFPath); err != nil {
		return err
	}

	ctx, rt, err := newRuntime(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.close(ctx)
	ctx = logger.WithDocument(ctx, req.PDFPath)

	cache, err := rt.newCache(req)
	if err != nil {
		return err
	}
	service, err := rt.newSpeechService()
	if err != nil {
		return err
	}
	assembler := rt.newAssembler()
	if err := assembler.Preflight(spec.Format); err != nil {
		return err
	}

	extracted, err := cache.GetOrExtract(ctx, req)
	if err != nil {
		return err
	}
	rt.metrics.RecordExtraction(extracted.Cached)

	result, err := rt.newConverter(service, assembler).Convert(ctx, extracted.Text, spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Text file: %s\n", extracted.TextPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio file saved: %s\n", result.Path)
	return nil
}
