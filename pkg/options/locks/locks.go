// Package locks configures server locking.
package locks

import "github.com/redhatinsights/uwsgiconf/pkg/core"

// Locks is the locking option group.
type Locks[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Locks[S] {
	return &Locks[S]{Group: core.NewGroup(base, owner, "locks", "")}
}

// BasicParams are the locking settings.
type BasicParams struct {
	// Number of user-available locks.
	Count int
	// Serialize accept() usage where possible.
	ThunderLock bool
	// Lock engine, e.g. "ipcsem".
	Engine string
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the locking settings.
func (l *Locks[S]) SetBasicParams(p BasicParams) S {
	l.Set("locks", core.NonZero(p.Count))
	l.Set("thunder-lock", core.NonZero(p.ThunderLock), core.AsBool())
	l.Set("lock-engine", core.NonZero(p.Engine))
	return l.Section()
}

// LockFile locks path before starting. With afterSetup the lock is taken
// once the server setup is done.
func (l *Locks[S]) LockFile(path string, afterSetup bool) S {
	key := "flock"
	if afterSetup {
		key = "flock2"
	}
	l.Set(key, l.Base().ReplacePlaceholders(path))
	return l.Section()
}
