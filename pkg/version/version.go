// Package version carries build metadata for the leafspine binaries.
package version

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/leafspine/pkg/version.Version=v1.0.0 \
//	  -X github.com/newtron-network/leafspine/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/leafspine/pkg/version.BuildDate=2026-01-01T00:00:00Z"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string for display.
func Info() string {
	return Version + " (" + GitCommit + ") built " + BuildDate
}

// Fields returns the build metadata for structured output.
func Fields() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
	}
}
