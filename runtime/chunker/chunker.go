// Package chunker splits long documents into ordered, size-bounded segments
// for text-to-speech without ever breaking a line across segments.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultLimit is the per-chunk character budget. It sits well below the
// context window of the TTS models in use.
const DefaultLimit = 10_000

// Split returns chunks of at most limit characters, never splitting a line.
// Chunks are joined with \n whatever terminator the input used.
//
// Each line is charged its length plus one for the newline reinserted on join.
// A line that alone exceeds limit becomes its own oversized chunk. Empty input
// yields no chunks. Chunk order follows line order.
func Split(text string, limit int) []string {
	var (
		chunks  []string
		current []string
		length  int
	)

	for _, line := range splitLines(text) {
		extra := utf8.RuneCountInString(line) + 1
		if len(current) > 0 && length+extra > limit {
			chunks = append(chunks, strings.Join(current, "\n"))
			current, length = []string{line}, extra
			continue
		}
		current = append(current, line)
		length += extra
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

// splitLines splits on line boundaries without keeping the terminators.
// Besides \n, \r\n and \r it breaks on \v, \f, the file, group and record
// separators (\x1c-\x1e), NEL (U+0085) and the Unicode line and paragraph
// separators, so page breaks in text extracted from PDFs end a line.
// A trailing terminator does not produce an extra empty line.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexFunc(text, isLineBreak)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			size++
		}
		text = text[i+size:]
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
