package audio

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV_Header(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := EncodeWAV(pcm, DefaultFormat)

	require.Len(t, wav, wavHeaderSize+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "PCM format tag")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "channels")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestWAVRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, size := range []int{0, 2, 480, 48001} {
		pcm := make([]byte, size)
		rng.Read(pcm)

		got, format, err := DecodeWAV(EncodeWAV(pcm, DefaultFormat))
		require.NoError(t, err)
		assert.Equal(t, DefaultFormat, format)
		assert.Equal(t, pcm, got, "size %d", size)
	}
}

// wavWithChunks builds a RIFF file from raw chunks.
func wavWithChunks(chunks ...[]byte) []byte {
	out := []byte("RIFF\x00\x00\x00\x00WAVE")
	for _, c := range chunks {
		out = append(out, c...)
	}
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

func chunk(id string, body []byte, declared uint32) []byte {
	out := make([]byte, 8, 8+len(body)+1)
	copy(out, id)
	binary.LittleEndian.PutUint32(out[4:8], declared)
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func fmtBody(tag uint16, f Format) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint16(b[0:2], tag)
	binary.LittleEndian.PutUint16(b[2:4], uint16(f.Channels))
	binary.LittleEndian.PutUint32(b[4:8], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(b[8:12], uint32(f.BytesPerSecond()))
	binary.LittleEndian.PutUint16(b[12:14], uint16(f.FrameSize()))
	binary.LittleEndian.PutUint16(b[14:16], uint16(f.SampleWidth*8))
	return b
}

func TestDecodeWAV_SkipsUnknownChunks(t *testing.T) {
	pcm := []byte{10, 20, 30, 40}
	list := []byte("INFOISFT\x05\x00\x00\x00Lavf\x00")
	data := wavWithChunks(
		chunk("LIST", list, uint32(len(list))),
		chunk("fmt ", fmtBody(wavFormatPCM, DefaultFormat), 16),
		chunk("data", pcm, uint32(len(pcm))),
	)

	got, format, err := DecodeWAV(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, format)
	assert.Equal(t, pcm, got)
}

func TestDecodeWAV_OddSizedChunkIsPadded(t *testing.T) {
	pcm := []byte{1, 2}
	data := wavWithChunks(
		chunk("fmt ", fmtBody(wavFormatPCM, DefaultFormat), 16),
		chunk("junk", []byte{9, 9, 9}, 3),
		chunk("data", pcm, 2),
	)

	got, _, err := DecodeWAV(data)
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
}

func TestDecodeWAV_StreamingDataSize(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}

	t.Run("placeholder size", func(t *testing.T) {
		data := wavWithChunks(
			chunk("fmt ", fmtBody(wavFormatPCM, DefaultFormat), 16),
			chunk("data", pcm, streamingDataSize),
		)
		got, _, err := DecodeWAV(data)
		require.NoError(t, err)
		assert.Equal(t, pcm, got)
	})

	t.Run("overlong size", func(t *testing.T) {
		data := wavWithChunks(
			chunk("fmt ", fmtBody(wavFormatPCM, DefaultFormat), 16),
			chunk("data", pcm, 1<<20),
		)
		got, _, err := DecodeWAV(data)
		require.NoError(t, err)
		assert.Equal(t, pcm, got)
	})
}

func TestDecodeWAV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte("RIFF"), ErrInvalidWAV},
		{"not riff", append([]byte("RIFX\x00\x00\x00\x00WAVE"), make([]byte, 40)...), ErrInvalidWAV},
		{"no data chunk", wavWithChunks(chunk("fmt ", fmtBody(wavFormatPCM, DefaultFormat), 16)), ErrInvalidWAV},
		{"data before fmt", wavWithChunks(chunk("data", []byte{0, 0}, 2)), ErrInvalidWAV},
		{"truncated fmt", wavWithChunks(chunk("fmt ", []byte{1, 0, 1, 0}, 4)), ErrInvalidWAV},
		{
			"float samples",
			wavWithChunks(
				chunk("fmt ", fmtBody(3, Format{Channels: 1, SampleRate: 24000, SampleWidth: 4}), 16),
				chunk("data", []byte{0, 0, 0, 0}, 4),
			),
			ErrUnsupportedEncoding,
		},
		{
			"zero channels",
			wavWithChunks(
				chunk("fmt ", fmtBody(wavFormatPCM, Format{Channels: 0, SampleRate: 24000, SampleWidth: 2}), 16),
				chunk("data", []byte{0, 0}, 2),
			),
			ErrInvalidWAV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeWAV(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeWAV_ReportsNonDefaultFormat(t *testing.T) {
	f := Format{Channels: 2, SampleRate: 44100, SampleWidth: 2}
	_, got, err := DecodeWAV(EncodeWAV([]byte{0, 0, 0, 0}, f))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}
