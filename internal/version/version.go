// Package version holds gigmarket build metadata injected via ldflags:
//
//	-ldflags "-X github.com/kailas-cloud/gigmarket/internal/version.Version=v1.4.0"
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build for startup logs and the health endpoint, e.g.
// "v1.4.0 (3f2c1ab, 2026-10-01)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
