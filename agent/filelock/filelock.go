// SPDX-License-Identifier: GPL-3.0-or-later

package filelock

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockSuffix = ".collector.lock"

// Locker holds advisory file locks, one per job full name, so that two
// plugin instances never run the same job at the same time.
type Locker struct {
	dir   string
	locks map[string]*flock.Flock
}

func New(dir string) *Locker {
	return &Locker{
		dir:   dir,
		locks: make(map[string]*flock.Flock),
	}
}

// Lock tries to acquire the lock for name. Locking an already held
// lock is a no-op that reports success.
func (l *Locker) Lock(name string) (bool, error) {
	path := l.lockPath(name)

	if _, ok := l.locks[path]; ok {
		return true, nil
	}

	fl := flock.New(path)

	ok, err := fl.TryLock()
	if !ok {
		_ = fl.Close()
		return false, err
	}

	l.locks[path] = fl

	return true, err
}

// Unlock releases the lock for name if this locker holds it.
func (l *Locker) Unlock(name string) {
	path := l.lockPath(name)

	fl, ok := l.locks[path]
	if !ok {
		return
	}

	delete(l.locks, path)

	_ = fl.Close()
}

// UnlockAll releases every lock this locker holds.
func (l *Locker) UnlockAll() {
	for path, fl := range l.locks {
		delete(l.locks, path)
		_ = fl.Close()
	}
}

func (l *Locker) isLocked(name string) bool {
	_, ok := l.locks[l.lockPath(name)]
	return ok
}

func (l *Locker) lockPath(name string) string {
	return filepath.Join(l.dir, name+lockSuffix)
}
