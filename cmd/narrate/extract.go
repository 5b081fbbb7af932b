package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itai-levin/paper-to-audio/runtime/logger"
)

func (c *cli) extractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract --pdf <file>",
		Short: "Extract narratable text from a PDF without narrating it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runExtract(cmd)
		},
	}
	addExtractionFlags(cmd)
	return cmd
}

func (c *cli) runExtract(cmd *cobra.Command) error {
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
	extracted, err := cache.GetOrExtract(ctx, req)
	if err != nil {
		return err
	}
	rt.metrics.RecordExtraction(extracted.Cached)

	status := "extracted"
	if extracted.Cached {
		status = "cached"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Text file (%s): %s\n", status, extracted.TextPath)
	return nil
}
