// Package version reports the narrate build version.
// Version variables can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/itai-levin/paper-to-audio/runtime/version.version=1.0.0"
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const (
	devVersion     = "dev"
	shortCommitLen = 7
	vcsRevisionKey = "vcs.revision"
	vcsModifiedKey = "vcs.modified"
)

// Build-time variables - can be overridden with -ldflags
var (
	version   = devVersion
	gitCommit = ""
	buildDate = ""
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the current version string.
// Falls back to build info from go modules if version is "dev".
func GetVersion() string {
	if version != devVersion {
		return version
	}

	if info, ok := readBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}

	return devVersion
}

// Commit returns the short git commit, from ldflags or VCS build info.
func Commit() string {
	if gitCommit != "" {
		return gitCommit
	}
	if value := buildSetting(vcsRevisionKey); value != "" {
		return value[:min(shortCommitLen, len(value))]
	}
	return ""
}

func buildSetting(key string) string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// GetVersionInfo returns the multi-line text printed by "narrate version".
func GetVersionInfo() string {
	var b strings.Builder

	fmt.Fprintf(&b, "narrate version %s", GetVersion())
	if commit := Commit(); commit != "" {
		fmt.Fprintf(&b, "\ncommit: %s", commit)
	}
	if buildDate != "" {
		fmt.Fprintf(&b, "\nbuilt: %s", buildDate)
	}

	return b.String()
}

// BuildAttrs returns version details as slog key-value pairs.
func BuildAttrs() []any {
	attrs := []any{"version", GetVersion()}

	if commit := Commit(); commit != "" {
		attrs = append(attrs, "commit", commit)
	}
	if gitCommit == "" && buildSetting(vcsModifiedKey) == "true" {
		attrs = append(attrs, "dirty", true)
	}
	if buildDate != "" {
		attrs = append(attrs, "built", buildDate)
	}

	return attrs
}
