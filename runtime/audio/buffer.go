package audio

import "time"

// Buffer accumulates PCM in append order. It has a single writer and is not
// safe for concurrent use.
type Buffer struct {
	format Format
	data   []byte
	parts  int
}

// NewBuffer creates an empty buffer for PCM in the given format.
func NewBuffer(format Format) *Buffer {
	return &Buffer{format: format}
}

// Append adds pcm to the end of the buffer.
func (b *Buffer) Append(pcm []byte) {
	b.data = append(b.data, pcm...)
	b.parts++
}

// Bytes returns the accumulated PCM. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Parts returns how many times Append was called.
func (b *Buffer) Parts() int {
	return b.parts
}

// Format returns the PCM format of the buffer.
func (b *Buffer) Format() Format {
	return b.format
}

// Duration returns the playback length of the accumulated PCM.
func (b *Buffer) Duration() time.Duration {
	return b.format.Duration(len(b.data))
}
