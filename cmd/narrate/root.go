package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itai-levin/paper-to-audio/runtime/version"
)

// Flag names. Flags that mirror configuration keys are bound to viper so the
// NARRATE_* environment variables apply to them too.
const (
	flagConfig      = "config"
	flagEnvFile     = "env-file"
	flagBackend     = "backend"
	flagOut         = "out"
	flagFormat      = "format"
	flagChunkLimit  = "chunk-limit"
	flagRPM         = "requests-per-minute"
	flagMetricsFile = "metrics-file"
	flagVerbose     = "verbose"

	flagTextFile = "text-file"
	flagPDF      = "pdf"
	flagPrompt   = "prompt"
	flagTxt      = "txt"
)

// cli holds per-invocation state shared by all subcommands.
type cli struct {
	v       *viper.Viper
	verbose bool
}

func newCLI() *cli {
	return &cli{v: viper.New()}
}

func (c *cli) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "narrate --text-file <path>",
		Short: "Narrate a text document into a single audio file",
		Long: `narrate splits a text document into line-preserving chunks, synthesizes
each chunk with a text-to-speech backend (Gemini or OpenAI), and writes the
concatenated narration as <out>.wav or <out>.mp3.

Use "narrate paper" to extract narratable text from a PDF first.`,
		Version:       version.GetVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initProcess(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runConvert(cmd)
		},
	}
	cmd.SetVersionTemplate(version.GetVersionInfo() + "\n")

	pf := cmd.PersistentFlags()
	pf.StringP(flagConfig, "c", "", "Configuration file path (YAML)")
	pf.String(flagEnvFile, ".env", "Environment file loaded before resolving credentials")
	pf.String(flagBackend, "", "TTS backend: gemini or openai (default gemini)")
	pf.StringP(flagOut, "o", "", "Output path without extension (default saved_paper)")
	pf.StringP(flagFormat, "f", "", "Output format: wav or mp3 (default wav)")
	pf.Int(flagChunkLimit, 0, "Maximum characters per TTS request (default 10000)")
	pf.Int(flagRPM, 0, "Maximum TTS requests per minute; 0 disables pacing")
	pf.String(flagMetricsFile, "", "Write Prometheus metrics to this textfile after the run")
	pf.BoolVarP(&c.verbose, flagVerbose, "v", false, "Enable debug logging, including API calls")

	cmd.Flags().String(flagTextFile, "", "Plain-text document to narrate (required)")

	c.bindFlags(cmd)

	cmd.AddCommand(c.paperCommand(), c.extractCommand(), versionCommand())
	return cmd
}

// initProcess loads the environment file. A missing file is not an error.
func (c *cli) initProcess(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString(flagEnvFile)
	if err != nil {
		return err
	}
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
