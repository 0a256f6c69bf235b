// Package version reports the ccscaffold build version.
package version

import (
	"fmt"
	"runtime/debug"
)

const devVersion = "v0.1.0-dev"

// Set by the release build with -ldflags "-X".
var (
	Version = devVersion
	Commit  = "none"
	Date    = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the release version. Binaries built with go install
// carry no ldflags, so the module version from the build info is used
// instead when there is one.
func GetVersion() string {
	if Version != devVersion {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// GetFullVersion returns the version with its commit and build date.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", GetVersion(), Commit, Date)
}
