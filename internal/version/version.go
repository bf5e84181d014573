// Package version reports build information injected through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/Azure/msgraph-snippets/internal/version.GitVersion=..."
var (
	GitVersion    = "dev"
	GitCommit     = "unknown"
	GitTreeState  = "unknown"
	BuildMetadata = ""
)

// GetVersion returns the version string including build metadata.
func GetVersion() string {
	if BuildMetadata == "" {
		return GitVersion
	}
	return fmt.Sprintf("%s+%s", GitVersion, BuildMetadata)
}

// GetVersionInfo returns version details keyed by name.
func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":      GetVersion(),
		"gitCommit":    GitCommit,
		"gitTreeState": GitTreeState,
		"goVersion":    runtime.Version(),
		"platform":     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
