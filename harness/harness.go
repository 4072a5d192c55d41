// Package harness holds process-level hooks for test harnesses: a hard
// abort and a measurement-flush point that coverage tooling can claim.
package harness

import (
	"os"
	"sync"
	"syscall"
)

var (
	mu        sync.Mutex
	flushHook func() error
)

// Abort terminates the process with SIGABRT, potentially leaving a core
// dump. It never returns.
func Abort() {
	_ = syscall.Kill(os.Getpid(), syscall.SIGABRT)
	// SIGABRT may be blocked; make sure we still go down.
	panic("process did not abort")
}

// SetFlushHook installs the function FlushMeasurements invokes. A nil
// hook restores the default no-op.
func SetFlushHook(hook func() error) {
	mu.Lock()
	flushHook = hook
	mu.Unlock()
}

// FlushMeasurements flushes any collected measurement data via the
// installed hook. Without a hook it does nothing.
func FlushMeasurements() error {
	mu.Lock()
	hook := flushHook
	mu.Unlock()

	if hook == nil {
		return nil
	}
	return hook()
}
