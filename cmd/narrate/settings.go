package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itai-levin/paper-to-audio/pkg/config"
	pkgerrors "github.com/itai-levin/paper-to-audio/pkg/errors"
)

const (
	component = "cli"
	envPrefix = "NARRATE"
)

// Environment-only keys. NARRATE_FFMPEG_PATH and friends.
const (
	keyFFmpegPath   = "ffmpeg.path"
	keyLogLevel     = "logging.level"
	keyLogFormat    = "logging.format"
	keyOTLPEndpoint = "telemetry.otlp_endpoint"
)

func (c *cli) bindFlags(cmd *cobra.Command) {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()

	for _, name := range []string{
		flagConfig, flagBackend, flagOut, flagFormat, flagChunkLimit, flagRPM, flagMetricsFile,
	} {
		_ = c.v.BindPFlag(name, cmd.PersistentFlags().Lookup(name))
	}
}

// loadSettings resolves configuration: defaults, then the config file, then
// NARRATE_* environment variables, then flags.
func (c *cli) loadSettings() (*config.Config, error) {
	cfg := config.Default()
	if path := c.v.GetString(flagConfig); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, pkgerrors.NewConfig(component, "LoadConfig", err)
		}
		cfg = loaded
	}

	applyOverrides(c.v, cfg)
	if c.verbose {
		cfg.Logging.Level = config.LogLevelDebug
	}

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.NewConfig(component, "Validate", err)
	}
	return cfg, nil
}

func applyOverrides(v *viper.Viper, cfg *config.Config) {
	setString(v, flagBackend, &cfg.Backend)
	setString(v, flagOut, &cfg.Out)
	setString(v, flagFormat, &cfg.Format)
	setInt(v, flagChunkLimit, &cfg.ChunkLimit)
	setInt(v, flagRPM, &cfg.RequestsPerMinute)
	setString(v, flagMetricsFile, &cfg.Metrics.Textfile)
	setString(v, keyFFmpegPath, &cfg.FFmpeg.Path)
	setString(v, keyLogLevel, &cfg.Logging.Level)
	setString(v, keyLogFormat, &cfg.Logging.Format)
	setString(v, keyOTLPEndpoint, &cfg.Telemetry.OTLPEndpoint)

	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.Format = strings.ToLower(cfg.Format)
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}
