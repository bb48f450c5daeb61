// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"github.com/maloquacious/semver"
)

// module version; bump Minor when the wire behavior of the tokenizer or
// encoder changes
const (
	versionMajor = 0
	versionMinor = 3
	versionPatch = 0
)

// Version returns the module version. The build metadata is the short VCS
// commit of the binary, with a "-dirty" suffix for uncommitted changes, or
// empty when the toolchain recorded none.
func Version() semver.Version {
	return semver.Version{
		Major: versionMajor,
		Minor: versionMinor,
		Patch: versionPatch,
		Build: semver.Commit(),
	}
}
