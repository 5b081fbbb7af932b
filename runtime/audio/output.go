package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputFormat selects the container written by the Assembler.
type OutputFormat string

// Supported output formats.
const (
	FormatWAV OutputFormat = "wav"
	FormatMP3 OutputFormat = "mp3"
)

// ParseOutputFormat parses a format name, case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatWAV:
		return FormatWAV, nil
	case FormatMP3:
		return FormatMP3, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want wav or mp3)", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// replaceableExtensions are swapped out rather than appended to.
var replaceableExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
	".txt": true,
}

// OutputSpec names the file the Assembler writes.
type OutputSpec struct {
	// BasePath is the output path, normally without extension.
	BasePath string
	// Format selects the container and the file extension.
	Format OutputFormat
}

// Path returns BasePath with the extension for Format. A known audio or text
// extension already on BasePath is replaced; anything else is kept and the
// format extension appended.
func (s OutputSpec) Path() string {
	return ReplaceExtension(s.BasePath, s.Format.Extension())
}

// ReplaceExtension swaps a known audio or text extension on path for ext,
// or appends ext when path has none of them.
func ReplaceExtension(path, ext string) string {
	current := filepath.Ext(path)
	if replaceableExtensions[strings.ToLower(current)] {
		return strings.TrimSuffix(path, current) + ext
	}
	return path + ext
}
