// Package version holds the build version, set at link time with
// -ldflags "-X github.com/ndewijer/Investment-Allocation-Backend/internal/version.Version=...".
package version

// Version is the application version.
var Version = "dev"
