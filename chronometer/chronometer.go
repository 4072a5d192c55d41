// Package chronometer provides the default time-delta source for trace
// collection: monotonic nanoseconds elapsed between successive readings.
package chronometer

import (
	"sync"
	"time"
)

// Chronometer measures nanoseconds between successive Delta calls. The
// first reading measures from construction.
type Chronometer struct {
	mu   sync.Mutex
	last time.Time
}

// New returns a chronometer anchored at the current time.
func New() *Chronometer {
	return &Chronometer{last: time.Now()}
}

// Delta returns the nanoseconds elapsed since the previous reading and
// advances the anchor. It satisfies collector.DeltaFunc and never fails.
func (c *Chronometer) Delta() (int64, error) {
	c.mu.Lock()
	now := time.Now()
	d := now.Sub(c.last).Nanoseconds()
	c.last = now
	c.mu.Unlock()
	return d, nil
}
