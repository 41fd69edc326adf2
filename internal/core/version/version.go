// Package version provides information about the build version of the service.
package version

import "fmt"

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'starforge/internal/core/version.version=v0.1.0'
	// -X 'starforge/internal/core/version.commit=abcd' -X 'starforge/internal/core/version.date=2025-09-02'"
	return BuildInfo{
		Service: "starforge",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String is the one line form printed by the cli
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
