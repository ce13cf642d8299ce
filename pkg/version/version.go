// Package version exposes the build version of the ecopulse binary.
package version

// version is overridden at build time with
// -ldflags "-X github.com/rshade/ecopulse/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Set by the linker.
var version = "v0.3.0-dev"

// GetVersion returns the build version string.
func GetVersion() string {
	if version == "" {
		return "dev"
	}
	return version
}
