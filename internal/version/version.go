// Package version exposes the build-time version string.
package version

// version is overridden at build time via -ldflags.
var version = "v0.0.0-dev"

// Value returns the version string stamped into the binary.
func Value() string {
	return version
}
