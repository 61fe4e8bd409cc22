// Package version holds build metadata injected at link time.
package version

// Version is the application version. Overridden at build time with
// -ldflags "-X github.com/rmfwatch/rmf-dashboard/internal/version.Version=...".
var Version = "dev"
