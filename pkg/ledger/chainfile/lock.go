package chainfile

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrChainLocked is returned when another process holds a chain's
// append lock for longer than the retry window.
var ErrChainLocked = errors.New("chainfile: chain is locked by another writer")

const (
	lockFileName   = ".lock"
	lockRetries    = 20
	lockRetryDelay = 25 * time.Millisecond
)

// chainLocker serializes appends to one chain across processes via an
// advisory lock on a file inside the chain directory. The read paths
// stay lock-free: a reader either sees a block or it does not, never a
// half-written one.
type chainLocker interface {
	// lock acquires the chain's append lock, retrying briefly before
	// giving up with ErrChainLocked. The returned func releases it.
	lock(chainDir string) (func(), error)
}

type fileChainLocker struct{}

func newChainLocker() chainLocker { return fileChainLocker{} }

func (fileChainLocker) lock(chainDir string) (func(), error) {
	path := filepath.Join(chainDir, lockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		err := flockExclusive(f)
		if err == nil {
			return func() {
				flockRelease(f)
				f.Close()
			}, nil
		}
		if !errors.Is(err, errWouldBlock) || attempt >= lockRetries {
			f.Close()
			return nil, ErrChainLocked
		}
		time.Sleep(lockRetryDelay)
	}
}
