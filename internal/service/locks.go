package service

import "sync"

// AttemptLocks serializes read-modify-write cycles on session state per
// attempt. The session store itself offers no atomicity, so without this a
// duplicate next-question retry from a flaky client could double-serve a
// question. Entries are reference counted and removed once unused.
type AttemptLocks struct {
	mu      sync.Mutex
	entries map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewAttemptLocks creates an empty lock table.
func NewAttemptLocks() *AttemptLocks {
	return &AttemptLocks{entries: make(map[int64]*lockEntry)}
}

// Lock acquires the mutex for an attempt and returns its release func.
func (l *AttemptLocks) Lock(attemptID int64) func() {
	l.mu.Lock()
	e, ok := l.entries[attemptID]
	if !ok {
		e = &lockEntry{}
		l.entries[attemptID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, attemptID)
		}
		l.mu.Unlock()
	}
}
