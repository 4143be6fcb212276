package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WriterLock is an advisory, process-level lock held for the duration of a
// run that writes to the metadata log.
type WriterLock struct {
	lock *flock.Flock
}

// AcquireWriterLock takes the lock at lockPath without blocking. It fails with
// ErrStoreLocked when another process already holds it.
func AcquireWriterLock(lockPath string) (*WriterLock, error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire metadata lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock file %s)", ErrStoreLocked, lockPath)
	}
	return &WriterLock{lock: lock}, nil
}

// Release drops the lock. It is safe to call on a nil lock.
func (l *WriterLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
