package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WAV header constants.
const (
	wavHeaderSize   = 44
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	fmtChunkMinSize = 16

	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// streamingDataSize is written by encoders that do not know the final
	// length when the header is emitted.
	streamingDataSize = 0xFFFFFFFF
)

// WAV decoding errors.
var (
	ErrInvalidWAV          = errors.New("invalid WAV data")
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding")
)

// EncodeWAV wraps raw PCM in a canonical 44-byte RIFF/WAVE header.
//
//nolint:gosec // header fields are bounded by the WAV size limits
func EncodeWAV(pcm []byte, format Format) []byte {
	dataSize := len(pcm)
	blockAlign := format.FrameSize()

	wav := make([]byte, wavHeaderSize+dataSize)

	// RIFF header
	copy(wav[0:4], "RIFF")
	binary.LittleEndian.PutUint32(wav[4:8], uint32(36+dataSize))
	copy(wav[8:12], "WAVE")

	// fmt subchunk
	copy(wav[12:16], "fmt ")
	binary.LittleEndian.PutUint32(wav[16:20], fmtChunkMinSize)
	binary.LittleEndian.PutUint16(wav[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(wav[22:24], uint16(format.Channels))
	binary.LittleEndian.PutUint32(wav[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(wav[28:32], uint32(format.BytesPerSecond()))
	binary.LittleEndian.PutUint16(wav[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(wav[34:36], uint16(format.SampleWidth*8))

	// data subchunk
	copy(wav[36:40], "data")
	binary.LittleEndian.PutUint32(wav[40:44], uint32(dataSize))
	copy(wav[44:], pcm)

	return wav
}

// DecodeWAV extracts the PCM payload and its format from a RIFF/WAVE file.
// Chunks other than "fmt " and "data" are skipped. A data chunk whose
// declared size is the streaming placeholder, or runs past the end of the
// input, is taken to extend to the end of the input.
func DecodeWAV(data []byte) ([]byte, Format, error) {
	if len(data) < riffHeaderSize {
		return nil, Format{}, fmt.Errorf("%w: %d bytes is shorter than a RIFF header", ErrInvalidWAV, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, Format{}, fmt.Errorf("%w: missing RIFF/WAVE signature", ErrInvalidWAV)
	}

	var (
		format    Format
		haveFmt   bool
		offset    = riffHeaderSize
		remaining = len(data)
	)

	for offset+chunkHeaderSize <= remaining {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + chunkHeaderSize

		switch id {
		case "fmt ":
			if int(size) < fmtChunkMinSize || body+int(size) > remaining {
				return nil, Format{}, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidWAV)
			}
			f, err := parseFmtChunk(data[body : body+int(size)])
			if err != nil {
				return nil, Format{}, err
			}
			format = f
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, Format{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			end := remaining
			if size != streamingDataSize && body+int(size) <= remaining {
				end = body + int(size)
			}
			pcm := make([]byte, end-body)
			copy(pcm, data[body:end])
			return pcm, format, nil
		}

		next := body + int(size)
		if size%2 == 1 {
			next++ // chunks are word aligned
		}
		if size == streamingDataSize || next > remaining {
			break
		}
		offset = next
	}

	return nil, Format{}, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}

func parseFmtChunk(b []byte) (Format, error) {
	tag := binary.LittleEndian.Uint16(b[0:2])
	channels := int(binary.LittleEndian.Uint16(b[2:4]))
	sampleRate := int(binary.LittleEndian.Uint32(b[4:8]))
	bitsPerSample := int(binary.LittleEndian.Uint16(b[14:16]))

	if tag == wavFormatExtensible {
		// The sub-format GUID starts with the real format tag.
		if len(b) < 26 {
			return Format{}, fmt.Errorf("%w: truncated extensible fmt chunk", ErrInvalidWAV)
		}
		tag = binary.LittleEndian.Uint16(b[24:26])
	}
	if tag != wavFormatPCM {
		return Format{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, tag)
	}
	if bitsPerSample%8 != 0 {
		return Format{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedEncoding, bitsPerSample)
	}

	f := Format{Channels: channels, SampleRate: sampleRate, SampleWidth: bitsPerSample / 8}
	if err := f.Validate(); err != nil {
		return Format{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	return f, nil
}
