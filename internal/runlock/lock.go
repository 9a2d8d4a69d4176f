// Package runlock enforces single-instance pipeline execution.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld reports that another run currently owns the lock.
var ErrHeld = errors.New("another run is already in progress")

// Lock is a file-based run lock. Overlapping scheduled invocations would
// break the single-writer assumption on the memory store, so every run must
// hold this for its full duration.
type Lock struct {
	fl *flock.Flock
}

// New prepares a lock at the given path.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// Acquire takes the lock without blocking. Returns ErrHeld when another
// process holds it.
func (l *Lock) Acquire() error {
	if dir := filepath.Dir(l.fl.Path()); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create lock dir: %w", err)
		}
	}

	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
