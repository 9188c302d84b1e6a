// Package version provides build metadata and version information.
package version

import (
	"fmt"
	"runtime"
)

// ServerName is the product name reported to clients and upstream APIs.
const ServerName = "mapbox-mcp-server"

var (
	// BuildVersion is the semantic version of the build
	BuildVersion = "0.1.0"

	// BuildCommit is the git commit hash of the build
	BuildCommit = "unknown"

	// BuildBranch is the git branch of the build
	BuildBranch = "unknown"

	// BuildTag is the git tag of the build, if any
	BuildTag = "unknown"

	// BuildDate is the date and time of the build
	BuildDate = "unknown"

	// GoVersion is the version of Go used to build
	GoVersion = runtime.Version()
)

// String returns a formatted version string
func String() string {
	return fmt.Sprintf("%s version %s (%s) built on %s with %s",
		ServerName, BuildVersion, BuildCommit, BuildDate, GoVersion)
}

// UserAgent returns the User-Agent header value attached to every outbound
// Mapbox API request so requests can be attributed to this build.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s, %s, %s)",
		ServerName, BuildVersion, BuildBranch, BuildTag, BuildCommit)
}

// Info returns a map of version information
func Info() map[string]string {
	return map[string]string{
		"name":       ServerName,
		"version":    BuildVersion,
		"commit":     BuildCommit,
		"branch":     BuildBranch,
		"tag":        BuildTag,
		"build_date": BuildDate,
		"go_version": GoVersion,
	}
}
