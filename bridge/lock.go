// Process-wide invocation lock: spec.md §5 requires that no two bridge
// invocations touch the same backends concurrently, which the Python
// original leaves to its cron scheduler's own serialization. Implemented
// here with github.com/gofrs/flock (adopted from the sibling pack repo
// monkey-w1n5t0n-gastown, which guards its own scan/apply cycle the same
// way) over a lock file inside the DVCS metadata directory.

package main

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".bridge.lock"

type invocationLock struct {
	flock *flock.Flock
	path  string
}

func newInvocationLock(gitDir string) *invocationLock {
	path := filepath.Join(gitDir, ".git", lockFileName)
	return &invocationLock{flock: flock.New(path), path: path}
}

// Acquire takes the lock without blocking, returning *LockHeldError when
// another invocation already holds it.
func (l *invocationLock) Acquire() error {
	ok, err := l.flock.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return &LockHeldError{Path: l.path}
	}
	return nil
}

func (l *invocationLock) Release() error {
	return l.flock.Unlock()
}
