// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent is the default User-Agent sent by the client.
func UserAgent() string {
	return "appsearch-go/" + Version
}
