// Package version provides the application name and version.
package version

import "fmt"

// AppName is the name printed by --version.
const AppName = "besecure-developer-toolkit"

// Version is overridden at build time via
// -ldflags "-X github.com/Be-Secure/besecure-developer-toolkit/internal/version.Version=..."
var Version = "0.1.0"

// String returns "<app> v<version>".
func String() string {
	return fmt.Sprintf("%s v%s", AppName, Version)
}
