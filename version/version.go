// Package version reports kin's build information.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information, set at build time via ldflags:
//
//	-X github.com/teranos/kin/version.Version=v0.3.0
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information.
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Semver parses Version. Development builds have no semantic version.
func (i Info) Semver() (*semver.Version, error) {
	return semver.NewVersion(i.Version)
}

// String returns a human-readable version string.
func (i Info) String() string {
	if v, err := i.Semver(); err == nil {
		return fmt.Sprintf("kin v%s (commit %s, built %s)", v, i.Short(), i.BuildTime)
	}
	return fmt.Sprintf("kin %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
