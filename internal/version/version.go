// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/bfo-scripmaster/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/bfo-scripmaster/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/bfo-scripmaster/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	         ./cmd/scripmaster
package version

// Build-time variables (set via ldflags)
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"

	// BuildTime is the UTC build timestamp (ISO 8601)
	BuildTime = "unknown"
)

// Info returns a formatted version line for -version output.
func Info() string {
	return "scripmaster " + Version + " (" + Commit + ") built " + BuildTime
}

// UserAgent is sent with every scrip master request.
func UserAgent() string {
	return "bfo-scripmaster/" + Version
}
