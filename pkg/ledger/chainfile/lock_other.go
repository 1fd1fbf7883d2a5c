//go:build !unix

package chainfile

import (
	"errors"
	"os"
)

var errWouldBlock = errors.New("chainfile: lock would block")

// Platforms without flock(2) fall back to the O_EXCL temp-file write as
// the only collision guard, matching the single-writer assumption.
func flockExclusive(_ *os.File) error { return nil }

func flockRelease(_ *os.File) {}
