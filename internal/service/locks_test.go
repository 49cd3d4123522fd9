package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptLocksSerialize(t *testing.T) {
	locks := NewAttemptLocks()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)

	locks.mu.Lock()
	assert.Empty(t, locks.entries, "entries must be reclaimed when unused")
	locks.mu.Unlock()
}

func TestAttemptLocksAreIndependent(t *testing.T) {
	locks := NewAttemptLocks()

	unlockA := locks.Lock(1)
	defer unlockA()

	// A different attempt must not block behind attempt 1.
	unlockB := locks.Lock(2)
	unlockB()
}
