// Package version holds build metadata injected at link time.
package version

import "runtime"

// Populated via -ldflags at release build time. Defaults cover `go run`
// and test binaries.
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain the binary was built with.
var GoInfo = runtime.Version()
