// Package buildinfo carries the version metadata cmd/cactusref reports
// through --version. Nothing in pkg/rc depends on this package; it exists purely
// for the CLI's own reporting.
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	// Revision is the VCS revision this binary was built from. Overridden
	// at link time, e.g.:
	// go build -ldflags "-X cactusref/internal/buildinfo.Revision=abcdef"
	Revision = "unknown"

	// Branch is the VCS branch this binary was built from.
	Branch = "unknown"

	// BuildDate is the date this binary was built.
	BuildDate = "unknown"

	// goVersion is the toolchain that produced this binary.
	goVersion = runtime.Version()
)

// Summary is the human-readable block cmd/cactusref prints for --version.
func Summary() string {
	return fmt.Sprintf(
		"cactusref\n  revision:    %s\n  branch:      %s\n  build date:  %s\n  go version:  %s\n",
		Revision, Branch, BuildDate, goVersion,
	)
}
