package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/itai-levin/paper-to-audio/runtime/logger"
)

// FFmpeg error types.
var (
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	ErrFFmpegTimeout  = errors.New("ffmpeg execution timed out")
	ErrEncoderMissing = errors.New("ffmpeg encoder not available")
)

// convertWithFFmpeg performs audio conversion using ffmpeg.
func (c *AudioConverter) convertWithFFmpeg(
	ctx context.Context,
	data []byte,
	fromMIME, toMIME string,
) ([]byte, error) {
	tempDir, err := os.MkdirTemp("", "narrate-convert-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(tempDir); removeErr != nil {
			logger.Warn("Failed to remove temp directory", "path", tempDir, "error", removeErr)
		}
	}()

	fromFormat := MIMETypeToAudioFormat(fromMIME)
	toFormat := MIMETypeToAudioFormat(toMIME)

	inputPath := filepath.Join(tempDir, "input."+fromFormat)
	outputPath := filepath.Join(tempDir, "output."+toFormat)

	if writeErr := os.WriteFile(inputPath, data, DefaultTempFilePermissions); writeErr != nil {
		return nil, fmt.Errorf("failed to write input file: %w", writeErr)
	}

	args := c.buildFFmpegArgs(inputPath, outputPath, toFormat)

	if runErr := c.runFFmpeg(ctx, args); runErr != nil {
		return nil, runErr
	}

	//nolint:gosec // G304: outputPath is constructed from temp directory, not user input
	output, readErr := os.ReadFile(outputPath)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read output file: %w", readErr)
	}

	return output, nil
}

// buildFFmpegArgs constructs ffmpeg command arguments.
func (c *AudioConverter) buildFFmpegArgs(inputPath, outputPath, toFormat string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
	}

	if c.config.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(c.config.SampleRate))
	}

	if c.config.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(c.config.Channels))
	}

	switch toFormat {
	case AudioFormatWAV:
		args = append(args, "-acodec", "pcm_s16le")

	case AudioFormatMP3:
		// libmp3lame with -b:a encodes at a constant bitrate.
		bitRate := c.config.BitRate
		if bitRate == "" {
			bitRate = DefaultMP3BitRate
		}
		args = append(args, "-acodec", MP3Encoder, "-b:a", bitRate)
	}

	return append(args, outputPath)
}

// runFFmpeg executes ffmpeg with timeout.
func (c *AudioConverter) runFFmpeg(ctx context.Context, args []string) error {
	timeout := time.Duration(c.config.FFmpegTimeout) * time.Second
	ffmpegCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: FFmpegPath is configurable but expected to be ffmpeg binary
	cmd := exec.CommandContext(ffmpegCtx, c.config.FFmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Running ffmpeg", "path", c.config.FFmpegPath, "args", args)

	if err := cmd.Run(); err != nil {
		if errors.Is(ffmpegCtx.Err(), context.DeadlineExceeded) {
			return ErrFFmpegTimeout
		}
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrFFmpegNotFound, c.config.FFmpegPath)
		}
		if strings.Contains(stderr.String(), "Unknown encoder") {
			return fmt.Errorf("%w: %s", ErrEncoderMissing, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	return nil
}

// CheckEncoderAvailable checks that ffmpeg can be executed from the given
// path and lists encoder among its encoders. An empty path means "ffmpeg"
// on PATH.
func CheckEncoderAvailable(ffmpegPath, encoder string) error {
	if ffmpegPath == "" {
		ffmpegPath = DefaultFFmpegPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultFFmpegCheckTimeout*time.Second)
	defer cancel()

	//nolint:gosec // G204: path is operator configuration
	cmd := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders")
	out, err := cmd.Output()
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrFFmpegNotFound, ffmpegPath)
		}
		return fmt.Errorf("ffmpeg check failed: %w", err)
	}
	if !listsEncoder(out, encoder) {
		return fmt.Errorf("%w: %s has no %s", ErrEncoderMissing, ffmpegPath, encoder)
	}
	return nil
}

// listsEncoder scans `ffmpeg -encoders` output, whose rows are
// "<flags> <name> <description>".
func listsEncoder(out []byte, encoder string) bool {
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == encoder {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}
