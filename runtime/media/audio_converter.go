// Package media provides ffmpeg-backed audio format conversion.
package media

import (
	"context"
	"fmt"
	"strings"
)

// Audio format constants.
const (
	AudioFormatWAV = "wav"
	AudioFormatMP3 = "mp3"
)

// Audio MIME type constants.
const (
	MIMETypeAudioWAV = "audio/wav"
	MIMETypeAudioMP3 = "audio/mpeg"
)

// Default configuration values.
const (
	DefaultFFmpegPath          = "ffmpeg"
	DefaultFFmpegTimeout       = 300 // 5 minutes
	DefaultFFmpegCheckTimeout  = 5   // seconds for availability check
	DefaultTempFilePermissions = 0600

	// DefaultMP3BitRate is the constant bitrate used for MP3 output.
	DefaultMP3BitRate = "192k"

	// MP3Encoder is the ffmpeg encoder used for MP3 output.
	MP3Encoder = "libmp3lame"
)

// AudioConverterConfig configures audio conversion behavior.
type AudioConverterConfig struct {
	// FFmpegPath is the path to the ffmpeg binary.
	// Default: "ffmpeg" (uses PATH).
	FFmpegPath string

	// FFmpegTimeout is the maximum time for FFmpeg execution, in seconds.
	// Default: 5 minutes.
	FFmpegTimeout int

	// SampleRate is the output sample rate in Hz. 0 preserves the input rate.
	SampleRate int

	// Channels is the number of output channels. 0 preserves the input layout.
	Channels int

	// BitRate is the constant MP3 bitrate (e.g., "192k").
	// Empty means DefaultMP3BitRate.
	BitRate string
}

// DefaultAudioConverterConfig returns sensible defaults for audio conversion.
func DefaultAudioConverterConfig() AudioConverterConfig {
	return AudioConverterConfig{
		FFmpegPath:    DefaultFFmpegPath,
		FFmpegTimeout: DefaultFFmpegTimeout,
		BitRate:       DefaultMP3BitRate,
	}
}

// AudioConvertResult contains the result of an audio conversion.
type AudioConvertResult struct {
	Data         []byte
	Format       string
	MIMEType     string
	OriginalSize int64
	NewSize      int64
	WasConverted bool
}

// AudioConverter handles audio format conversion using ffmpeg.
type AudioConverter struct {
	config AudioConverterConfig
}

// NewAudioConverter creates a new audio converter with the given config.
func NewAudioConverter(config AudioConverterConfig) *AudioConverter {
	if config.FFmpegPath == "" {
		config.FFmpegPath = DefaultFFmpegPath
	}
	if config.FFmpegTimeout <= 0 {
		config.FFmpegTimeout = DefaultFFmpegTimeout
	}
	return &AudioConverter{config: config}
}

// Available reports whether the configured ffmpeg binary can be executed
// and was built with the MP3 encoder.
func (c *AudioConverter) Available() error {
	return CheckEncoderAvailable(c.config.FFmpegPath, MP3Encoder)
}

// ConvertAudio converts audio data from one format to another.
// If the source format matches the target, returns the original data unchanged.
func (c *AudioConverter) ConvertAudio(
	ctx context.Context,
	data []byte,
	fromMIME, toMIME string,
) (*AudioConvertResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio data")
	}

	fromMIME = normalizeMIMEType(fromMIME)
	toMIME = normalizeMIMEType(toMIME)

	if !c.CanConvert(fromMIME, toMIME) {
		return nil, fmt.Errorf("unsupported conversion %s -> %s", fromMIME, toMIME)
	}

	if fromMIME == toMIME {
		return &AudioConvertResult{
			Data:         data,
			Format:       MIMETypeToAudioFormat(toMIME),
			MIMEType:     toMIME,
			OriginalSize: int64(len(data)),
			NewSize:      int64(len(data)),
			WasConverted: false,
		}, nil
	}

	converted, err := c.convertWithFFmpeg(ctx, data, fromMIME, toMIME)
	if err != nil {
		return nil, fmt.Errorf("audio conversion failed: %w", err)
	}

	return &AudioConvertResult{
		Data:         converted,
		Format:       MIMETypeToAudioFormat(toMIME),
		MIMEType:     toMIME,
		OriginalSize: int64(len(data)),
		NewSize:      int64(len(converted)),
		WasConverted: true,
	}, nil
}

// CanConvert checks if the converter can convert between the given formats.
func (c *AudioConverter) CanConvert(fromMIME, toMIME string) bool {
	supported := map[string]bool{
		MIMETypeAudioWAV: true,
		MIMETypeAudioMP3: true,
	}
	return supported[normalizeMIMEType(fromMIME)] && supported[normalizeMIMEType(toMIME)]
}

// MIMETypeToAudioFormat converts a MIME type to a format string.
func MIMETypeToAudioFormat(mimeType string) string {
	if normalizeMIMEType(mimeType) == MIMETypeAudioMP3 {
		return AudioFormatMP3
	}
	return AudioFormatWAV
}

// normalizeMIMEType normalizes MIME type variations to a canonical form.
func normalizeMIMEType(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	mimeType = strings.ToLower(mimeType)

	switch mimeType {
	case "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return MIMETypeAudioWAV
	case "audio/mp3":
		return MIMETypeAudioMP3
	default:
		return mimeType
	}
}
