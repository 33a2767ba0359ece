// Package version holds build metadata for the revstat binary.
package version

// Build metadata, overridden at link time via -ldflags:
//
//	-X github.com/revstat/revstat/pkg/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a single-line human-readable version string.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
