package audio

import (
	"fmt"
	"time"
)

// SampleRate24kHz is the output rate of both TTS backends.
const SampleRate24kHz = 24000

// Format describes interleaved linear PCM.
type Format struct {
	// Channels is the number of interleaved channels.
	Channels int
	// SampleRate is the number of frames per second.
	SampleRate int
	// SampleWidth is the size of one sample in bytes.
	SampleWidth int
}

// DefaultFormat is the PCM convention every backend is normalized to.
var DefaultFormat = Format{Channels: 1, SampleRate: SampleRate24kHz, SampleWidth: 2}

// FrameSize returns the number of bytes in one frame (one sample per channel).
func (f Format) FrameSize() int {
	return f.Channels * f.SampleWidth
}

// BytesPerSecond returns the byte rate of the format.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.FrameSize()
}

// Duration returns the playback length of n bytes of PCM in this format.
func (f Format) Duration(n int) time.Duration {
	bps := f.BytesPerSecond()
	if bps <= 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(bps))
}

// Validate checks that the format can be described by a PCM WAV header.
func (f Format) Validate() error {
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	switch f.SampleWidth {
	case 1, 2, 3, 4:
	default:
		return fmt.Errorf("invalid sample width: %d", f.SampleWidth)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dch/%dHz/%dbit", f.Channels, f.SampleRate, f.SampleWidth*8)
}
