// Package version holds the service version string.
package version

// Version is set at build time via -ldflags "-X .../internal/version.Version=...".
var Version = "1.0.0"
