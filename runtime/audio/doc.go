// Package audio holds the raw PCM conventions used across the converter and
// the pieces that turn accumulated PCM into an output file.
//
// All synthesized audio is normalized to a single format before it is
// accumulated: mono, 16-bit signed little-endian samples at 24 kHz
// (DefaultFormat). Backends that return a container (WAV) are unwrapped with
// DecodeWAV; backends that return raw samples are used as-is.
//
// # Usage Example
//
//	buf := audio.NewBuffer(audio.DefaultFormat)
//	for _, pcm := range chunks {
//	    buf.Append(pcm)
//	}
//
//	asm := audio.NewAssembler(media.NewAudioConverter(media.DefaultAudioConverterConfig()))
//	spec := audio.OutputSpec{BasePath: "saved_paper", Format: audio.FormatMP3}
//	if err := asm.Preflight(spec.Format); err != nil {
//	    return err
//	}
//	path, err := asm.Write(ctx, buf.Bytes(), spec)
package audio
