package sync

import (
	gosync "sync"

	"github.com/gofrs/flock"

	"github.com/arthur-debert/tmplsync/pkg/errors"
)

// Locker is the exclusive per-project run lock. A run acquires it before
// planning and releases it after the state store is durably updated;
// concurrent runs against the same project fail fast instead of
// interleaving.
type Locker interface {
	// TryLock acquires the lock or fails with a LOCK_HELD error
	TryLock() error

	// Unlock releases the lock. Safe to call after a failed TryLock.
	Unlock() error
}

// flockLocker implements Locker with an advisory file lock
type flockLocker struct {
	fl *flock.Flock
}

// NewFileLocker creates an advisory file lock at the given path
func NewFileLocker(path string) Locker {
	return &flockLocker{fl: flock.New(path)}
}

func (l *flockLocker) TryLock() error {
	locked, err := l.fl.TryLock()
	if err != nil {
		return errors.Wrapf(err, errors.ErrLockHeld, "failed to acquire run lock %s", l.fl.Path())
	}
	if !locked {
		return errors.Newf(errors.ErrLockHeld,
			"another run holds the lock %s; retry once it finishes", l.fl.Path())
	}
	return nil
}

func (l *flockLocker) Unlock() error {
	return l.fl.Unlock()
}

// memLocker is an in-process Locker for tests running on in-memory
// filesystems, where no lock file can exist
type memLocker struct {
	mu   gosync.Mutex
	held bool
}

// NewMemLocker creates an in-process Locker
func NewMemLocker() Locker {
	return &memLocker{}
}

func (l *memLocker) TryLock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return errors.New(errors.ErrLockHeld, "another run holds the lock")
	}
	l.held = true
	return nil
}

func (l *memLocker) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}
