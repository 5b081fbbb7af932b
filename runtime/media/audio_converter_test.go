package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFFmpeg writes a shell script that records its arguments and writes a
// fixed payload to its last argument, standing in for a real ffmpeg binary
// built with libmp3lame.
func fakeFFmpeg(t *testing.T, payload string) (path, argsFile string) {
	t.Helper()
	return writeFakeFFmpeg(t, payload, true)
}

// writeFakeFFmpeg is fakeFFmpeg with control over whether the MP3 encoder is
// compiled in. Without it, -encoders omits libmp3lame and conversions fail
// the way a real ffmpeg does.
func writeFakeFFmpeg(t *testing.T, payload string, withMP3 bool) (path, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	dir := t.TempDir()
	path = filepath.Join(dir, "ffmpeg")
	argsFile = filepath.Join(dir, "args")

	encoders := "echo ' A....D pcm_s16le           PCM signed 16-bit little-endian'\n"
	convert := "echo \"Unknown encoder 'libmp3lame'\" >&2\nexit 1\n"
	if withMP3 {
		encoders += "echo ' A..... libmp3lame          libmp3lame MP3 (MPEG audio layer 3)'\n"
		convert = "printf '%s' '" + payload + "' > \"$last\"\n"
	}
	script := "#!/bin/sh\n" +
		"echo \"$@\" > '" + argsFile + "'\n" +
		"for last; do :; done\n" +
		"if [ \"$last\" = -encoders ]; then\n" +
		"echo 'Encoders:'\n" +
		encoders +
		"exit 0\n" +
		"fi\n" +
		convert
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, argsFile
}

func TestNewAudioConverter(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		conv := NewAudioConverter(DefaultAudioConverterConfig())
		assert.Equal(t, "ffmpeg", conv.config.FFmpegPath)
		assert.Equal(t, 300, conv.config.FFmpegTimeout)
		assert.Equal(t, "192k", conv.config.BitRate)
	})

	t.Run("empty config uses defaults", func(t *testing.T) {
		conv := NewAudioConverter(AudioConverterConfig{})
		assert.Equal(t, "ffmpeg", conv.config.FFmpegPath)
		assert.Equal(t, 300, conv.config.FFmpegTimeout)
	})

	t.Run("custom config", func(t *testing.T) {
		conv := NewAudioConverter(AudioConverterConfig{
			FFmpegPath:    "/usr/local/bin/ffmpeg",
			FFmpegTimeout: 60,
			BitRate:       "128k",
		})
		assert.Equal(t, "/usr/local/bin/ffmpeg", conv.config.FFmpegPath)
		assert.Equal(t, 60, conv.config.FFmpegTimeout)
		assert.Equal(t, "128k", conv.config.BitRate)
	})
}

func TestAudioConverter_ConvertAudio_SameFormat(t *testing.T) {
	conv := NewAudioConverter(DefaultAudioConverterConfig())

	data := []byte("test audio data")
	result, err := conv.ConvertAudio(context.Background(), data, "audio/x-wav", MIMETypeAudioWAV)
	require.NoError(t, err)

	assert.False(t, result.WasConverted)
	assert.Equal(t, data, result.Data)
	assert.Equal(t, AudioFormatWAV, result.Format)
}

func TestAudioConverter_ConvertAudio_EmptyData(t *testing.T) {
	conv := NewAudioConverter(DefaultAudioConverterConfig())

	_, err := conv.ConvertAudio(context.Background(), nil, MIMETypeAudioWAV, MIMETypeAudioMP3)
	assert.Error(t, err)
}

func TestAudioConverter_ConvertAudio_Unsupported(t *testing.T) {
	conv := NewAudioConverter(DefaultAudioConverterConfig())

	_, err := conv.ConvertAudio(context.Background(), []byte("x"), MIMETypeAudioWAV, "audio/unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported conversion")
}

func TestAudioConverter_ConvertAudio_WAVToMP3(t *testing.T) {
	ffmpeg, argsFile := fakeFFmpeg(t, "ID3mp3data")
	conv := NewAudioConverter(AudioConverterConfig{FFmpegPath: ffmpeg})

	result, err := conv.ConvertAudio(context.Background(), []byte("RIFFfake"), MIMETypeAudioWAV, MIMETypeAudioMP3)
	require.NoError(t, err)

	assert.True(t, result.WasConverted)
	assert.Equal(t, []byte("ID3mp3data"), result.Data)
	assert.Equal(t, AudioFormatMP3, result.Format)
	assert.Equal(t, MIMETypeAudioMP3, result.MIMEType)
	assert.Equal(t, int64(8), result.OriginalSize)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "-acodec libmp3lame -b:a 192k")
}

func TestAudioConverter_ConvertAudio_MissingBinary(t *testing.T) {
	conv := NewAudioConverter(AudioConverterConfig{FFmpegPath: "/nonexistent/path/to/ffmpeg"})

	_, err := conv.ConvertAudio(context.Background(), []byte("RIFF"), MIMETypeAudioWAV, MIMETypeAudioMP3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFFmpegNotFound), "got %v", err)
}

func TestBuildFFmpegArgs(t *testing.T) {
	tests := []struct {
		name     string
		config   AudioConverterConfig
		format   string
		contains []string
		absent   []string
	}{
		{
			name:     "mp3 default bitrate",
			config:   AudioConverterConfig{},
			format:   AudioFormatMP3,
			contains: []string{"-acodec libmp3lame", "-b:a 192k"},
		},
		{
			name:     "mp3 custom bitrate and layout",
			config:   AudioConverterConfig{BitRate: "128k", SampleRate: 24000, Channels: 1},
			format:   AudioFormatMP3,
			contains: []string{"-b:a 128k", "-ar 24000", "-ac 1"},
		},
		{
			name:     "wav",
			config:   AudioConverterConfig{},
			format:   AudioFormatWAV,
			contains: []string{"-acodec pcm_s16le"},
			absent:   []string{"-b:a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewAudioConverter(tt.config)
			args := conv.buildFFmpegArgs("/tmp/in.wav", "/tmp/out."+tt.format, tt.format)
			joined := strings.Join(args, " ")

			assert.True(t, strings.HasPrefix(joined, "-y"))
			assert.True(t, strings.HasSuffix(joined, "/tmp/out."+tt.format))
			for _, want := range tt.contains {
				assert.Contains(t, joined, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, joined, unwanted)
			}
		})
	}
}

func TestCheckEncoderAvailable(t *testing.T) {
	t.Run("invalid path returns not found", func(t *testing.T) {
		err := CheckEncoderAvailable("/nonexistent/path/to/ffmpeg", MP3Encoder)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFFmpegNotFound))
	})

	t.Run("binary with mp3 encoder", func(t *testing.T) {
		ffmpeg, argsFile := fakeFFmpeg(t, "")
		assert.NoError(t, CheckEncoderAvailable(ffmpeg, MP3Encoder))
		assert.NoError(t, NewAudioConverter(AudioConverterConfig{FFmpegPath: ffmpeg}).Available())

		args, err := os.ReadFile(argsFile)
		require.NoError(t, err)
		assert.Equal(t, "-hide_banner -encoders", strings.TrimSpace(string(args)))
	})

	t.Run("binary without mp3 encoder", func(t *testing.T) {
		ffmpeg, _ := writeFakeFFmpeg(t, "", false)
		err := NewAudioConverter(AudioConverterConfig{FFmpegPath: ffmpeg}).Available()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEncoderMissing), "got %v", err)
		assert.False(t, errors.Is(err, ErrFFmpegNotFound))
	})
}

func TestAudioConverter_ConvertAudio_UnknownEncoder(t *testing.T) {
	ffmpeg, _ := writeFakeFFmpeg(t, "", false)
	conv := NewAudioConverter(AudioConverterConfig{FFmpegPath: ffmpeg})

	_, err := conv.ConvertAudio(context.Background(), []byte("RIFFfake"), MIMETypeAudioWAV, MIMETypeAudioMP3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoderMissing), "got %v", err)
}

func TestListsEncoder(t *testing.T) {
	out := []byte("Encoders:\n V..... = Video\n ------\n A..... libmp3lame  libmp3lame MP3\n A..... mp3_mf  MP3 via MediaFoundation\n")
	assert.True(t, listsEncoder(out, "libmp3lame"))
	assert.False(t, listsEncoder(out, "libvorbis"))
	assert.False(t, listsEncoder(out, "MP3"), "descriptions are not encoder names")
}

func TestMIMETypeToAudioFormat(t *testing.T) {
	tests := map[string]string{
		"audio/wav":              AudioFormatWAV,
		"audio/x-wav":            AudioFormatWAV,
		"audio/wave":             AudioFormatWAV,
		"audio/mpeg":             AudioFormatMP3,
		"audio/mp3":              AudioFormatMP3,
		"audio/MPEG":             AudioFormatMP3,
		"audio/wav; codecs=1":    AudioFormatWAV,
		"application/octet-data": AudioFormatWAV,
	}
	for mime, want := range tests {
		assert.Equal(t, want, MIMETypeToAudioFormat(mime), mime)
	}
}

func TestAudioConverter_CanConvert(t *testing.T) {
	conv := NewAudioConverter(DefaultAudioConverterConfig())
	assert.True(t, conv.CanConvert(MIMETypeAudioWAV, MIMETypeAudioMP3))
	assert.True(t, conv.CanConvert("audio/x-wav", "audio/mp3"))
	assert.False(t, conv.CanConvert(MIMETypeAudioWAV, "audio/flac"))
}
