// Package version holds the build version, set at link time with
// -ldflags "-X hitac/internal/version.Version=...".
package version

var Version = "dev"
