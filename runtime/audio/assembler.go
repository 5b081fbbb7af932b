package audio

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/itai-levin/paper-to-audio/pkg/errors"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
	"github.com/itai-levin/paper-to-audio/runtime/media"
	"github.com/itai-levin/paper-to-audio/runtime/storage/local"
)

const component = "audio"

// ErrEncoderUnavailable is returned when compressed output is requested but
// no working encoder is installed.
var ErrEncoderUnavailable = errors.New("mp3 encoder unavailable")

// Transcoder converts a complete audio file between container formats.
// *media.AudioConverter implements it with ffmpeg.
type Transcoder interface {
	Available() error
	ConvertAudio(ctx context.Context, data []byte, fromMIME, toMIME string) (*media.AudioConvertResult, error)
}

// Assembler encodes accumulated PCM into the requested output container.
type Assembler struct {
	transcoder Transcoder
	format     Format
}

// NewAssembler creates an assembler for DefaultFormat PCM. The transcoder is
// only used for compressed formats and may be nil for WAV-only use.
func NewAssembler(transcoder Transcoder) *Assembler {
	return &Assembler{transcoder: transcoder, format: DefaultFormat}
}

// Preflight verifies that format can be produced. It must be called before
// any synthesis so a missing encoder fails the run without network use.
func (a *Assembler) Preflight(format OutputFormat) error {
	switch format {
	case FormatWAV:
		return nil
	case FormatMP3:
		if a.transcoder == nil {
			return pkgerrors.NewConfig(component, "Preflight", ErrEncoderUnavailable)
		}
		if err := a.transcoder.Available(); err != nil {
			return pkgerrors.NewConfig(component, "Preflight",
				fmt.Errorf("%w: %w", ErrEncoderUnavailable, err))
		}
		return nil
	default:
		return pkgerrors.NewConfig(component, "Preflight",
			fmt.Errorf("unsupported output format %q", format))
	}
}

// Write encodes pcm into spec's container and writes it to spec.Path().
// The file is replaced atomically; on error nothing is written.
func (a *Assembler) Write(ctx context.Context, pcm []byte, spec OutputSpec) (string, error) {
	path := spec.Path()
	wav := EncodeWAV(pcm, a.format)

	var data []byte
	switch spec.Format {
	case FormatWAV:
		data = wav
	case FormatMP3:
		if err := a.Preflight(FormatMP3); err != nil {
			return "", err
		}
		result, err := a.transcoder.ConvertAudio(ctx, wav, media.MIMETypeAudioWAV, media.MIMETypeAudioMP3)
		if err != nil {
			return "", encodeError(err).WithDetails(map[string]any{"format": spec.Format})
		}
		data = result.Data
	default:
		return "", pkgerrors.NewConfig(component, "Write",
			fmt.Errorf("unsupported output format %q", spec.Format))
	}

	if err := local.WriteFileAtomic(path, data, local.DefaultFilePermissions); err != nil {
		return "", pkgerrors.NewIO(component, "Write", err)
	}

	logger.InfoContext(ctx, "Audio written",
		"path", path,
		"format", spec.Format,
		"bytes", len(data),
		"duration", a.format.Duration(len(pcm)).String(),
	)
	return path, nil
}

// encodeError classifies an encoder failure: a missing binary or encoder is
// a configuration problem, anything else an I/O failure.
func encodeError(err error) *pkgerrors.ContextualError {
	if errors.Is(err, media.ErrFFmpegNotFound) || errors.Is(err, media.ErrEncoderMissing) {
		return pkgerrors.NewConfig(component, "Encode", fmt.Errorf("%w: %w", ErrEncoderUnavailable, err))
	}
	return pkgerrors.NewIO(component, "Encode", err)
}
