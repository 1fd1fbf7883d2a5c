//go:build unix

package chainfile

import (
	"os"
	"syscall"
)

var errWouldBlock = error(syscall.EWOULDBLOCK)

// flockExclusive takes a non-blocking exclusive flock(2) on the file.
// Advisory: only cooperating mnemo processes observe it.
func flockExclusive(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func flockRelease(f *os.File) {
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
