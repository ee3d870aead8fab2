// Package version reports which build of directvga is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// The name to use when referring to the application
const ApplicationName = "DirectVGA"

// number is set at link time for numbered releases:
//
//	go build -ldflags "-X github.com/jetsetilly/directvga/version.number=v0.1.0"
var number string

// length of the revision hash shown in titles
const shortRevision = 8

// Build describes the binary as reported by the Go toolchain
type Build struct {
	// the release number. empty if the binary is not a numbered release
	Number string

	// vcs revision and whether the working tree was modified. the revision is
	// empty if the binary was built without vcs information, for example with
	// "go run ."
	Revision string
	Modified bool

	GoVersion string
}

// Release is true if the build is a numbered release
func (b Build) Release() bool {
	return b.Number != ""
}

func (b Build) String() string {
	if b.Release() {
		return b.Number
	}
	if b.Revision == "" {
		return "local"
	}
	r := b.Revision
	if len(r) > shortRevision {
		r = r[:shortRevision]
	}
	if b.Modified {
		r = fmt.Sprintf("%s+dirty", r)
	}
	return r
}

var current Build

func init() {
	current = readBuild(number, debug.ReadBuildInfo)
}

func readBuild(number string, read func() (*debug.BuildInfo, bool)) Build {
	b := Build{Number: number}

	info, ok := read()
	if !ok {
		return b
	}
	b.GoVersion = info.GoVersion

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}

	return b
}

// Current returns the build information of the running binary
func Current() Build {
	return current
}

// Title returns a string suitable for a window title
func Title() string {
	return fmt.Sprintf("%s (%s)", ApplicationName, current)
}
