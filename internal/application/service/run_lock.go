package service

import (
	"sync"
	"time"
)

// runLock serializes billing runs per billing date. The engine itself does
// not assume the scheduler serializes triggers, so concurrent invocations for
// the same date are rejected instead of interleaved.
type runLock struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunLock() *runLock {
	return &runLock{active: make(map[string]struct{})}
}

// TryAcquire reserves the billing date for one run. It returns false when a
// run for the same date is already in flight.
func (l *runLock) TryAcquire(billingDate time.Time) bool {
	key := billingDate.Format("2006-01-02")
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.active[key]; held {
		return false
	}
	l.active[key] = struct{}{}
	return true
}

// Release frees the billing date again
func (l *runLock) Release(billingDate time.Time) {
	key := billingDate.Format("2006-01-02")
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, key)
}
