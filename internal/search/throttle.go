package search

import (
	"sync"
	"time"
)

// throttle spaces calls at least interval apart. Callers reserve a slot
// under the lock and sleep outside it, so concurrent searches queue up
// without serializing on the mutex.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval}
}

// wait blocks until the caller's reserved slot arrives.
func (t *throttle) wait() {
	t.mu.Lock()
	d := t.interval - time.Since(t.last)
	if d > 0 {
		t.last = t.last.Add(t.interval)
	} else {
		t.last = time.Now()
	}
	t.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
}
