package version

import (
	"fmt"
	"runtime"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/catpages/internal/version.Version=v0.3.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description for the version command.
func String() string {
	return fmt.Sprintf("catpages %s (commit %s, built %s, %s)", Version, GitCommit, BuildTime, runtime.Version())
}
