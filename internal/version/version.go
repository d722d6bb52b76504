// Package version holds build information for apidelta.
package version

import "github.com/Masterminds/semver/v3"

// Set at build time:
// go build -ldflags "-X apidelta/internal/version.Version=1.0.0 -X apidelta/internal/version.Commit=abc123"
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version with a short commit suffix when one is known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line output of `apidelta version`.
func Full() string {
	return "apidelta version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}

// Semver parses Version. A malformed build stamp yields 0.0.0.
func Semver() *semver.Version {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return v
}
