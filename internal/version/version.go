// Package version provides version information for scrollmap-search-panel.
package version

import "runtime/debug"

// Version is the version of scrollmap-search-panel. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// GoVersion returns the Go toolchain the binary was built with, or "" when
// build info is unavailable.
func GoVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return info.GoVersion
}
