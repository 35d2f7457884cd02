// Package version holds build-time metadata injected via ldflags.
package version

// These variables are set at build time using -ldflags:
//
//	-X 'github.com/oilscope/oilscope/internal/version.Version=...'
//	-X 'github.com/oilscope/oilscope/internal/version.CommitHash=...'
//	-X 'github.com/oilscope/oilscope/internal/version.BuildDate=...'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

func String() string {
	return Version + " (" + CommitHash + ") built " + BuildDate
}
