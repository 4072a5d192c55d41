// Package tracehook manages the per-goroutine association between a
// running goroutine and its active trace collector. At most one collector
// is active per goroutine; installing a new one replaces the prior
// handler, and installing the same collector again is a no-op.
package tracehook

import (
	"sync"

	"tracescope/collector"
)

var (
	mu     sync.RWMutex
	active = make(map[uint64]*collector.Collector)
)

// Install registers c as the active trace handler for the calling
// goroutine, replacing any previous handler.
func Install(c *collector.Collector) {
	gid := goroutineID()
	mu.Lock()
	active[gid] = c
	mu.Unlock()
}

// Uninstall removes the calling goroutine's trace handler, if any.
func Uninstall() {
	gid := goroutineID()
	mu.Lock()
	delete(active, gid)
	mu.Unlock()
}

// Active returns the calling goroutine's trace handler.
func Active() (*collector.Collector, bool) {
	gid := goroutineID()
	mu.RLock()
	c, ok := active[gid]
	mu.RUnlock()
	return c, ok
}

// Emit dispatches one trace event to the calling goroutine's handler.
// With no handler installed the event is dropped and tracing continues.
// A handler error aborts that event only; the handler stays installed.
func Emit(frame collector.Frame, kind collector.EventKind, arg any) error {
	c, ok := Active()
	if !ok {
		return nil
	}
	return c.Collect(frame, kind, arg)
}
