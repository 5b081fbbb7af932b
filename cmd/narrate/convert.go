package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itai-levin/paper-to-audio/runtime/logger"
)

// runConvert narrates --text-file. Checks run in order: text file,
// credential, encoder, and only then the network.
func (c *cli) runConvert(cmd *cobra.Command) error {
	cfg, err := c.loadSettings()
	if err != nil {
		return err
	}

	textPath, err := cmd.Flags().GetString(flagTextFile)
	if err != nil {
		return err
	}
	text, err := readInputFile(flagTextFile, textPath)
	if err != nil {
		return err
	}

	ctx, rt, err := newRuntime(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.close(ctx)
	ctx = logger.WithDocument(ctx, textPath)

	service, err := rt.newSpeechService()
	if err != nil {
		return err
	}
	spec, err := outputSpec(cfg)
	if err != nil {
		return err
	}

	result, err := rt.newConverter(service, rt.newAssembler()).Convert(ctx, string(text), spec)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Conversion complete",
		"chunks", result.Chunks,
		"duration", result.Duration.String(),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio file saved: %s\n", result.Path)
	return nil
}
