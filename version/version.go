// Package version holds build-time identifying information, populated via
// -ldflags at release build time. When not set (as in a plain `go build`),
// the Git* values stay "dev"; GoInfo always reports the building toolchain.
package version

import "runtime"

var (
	// GitRelease is the tag or release name this binary was built from.
	GitRelease = "dev"
	// GitCommit is the commit hash this binary was built from.
	GitCommit = "dev"
	// GitCommitDate is the commit date this binary was built from.
	GitCommitDate = "dev"
)

// GoInfo is the Go toolchain version used to build this binary.
var GoInfo = runtime.Version()
