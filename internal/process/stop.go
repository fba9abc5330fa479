package process

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultStopTimeout is the default total time Stop and Close allow a child
// to exit after the first termination signal.
const DefaultStopTimeout = 10 * time.Second

// DefaultDrainTimeout bounds how long Wait waits for the stdout pipe to reach
// EOF after the child exits. EOF is normally immediate; it is delayed only
// when a grandchild inherited the pipe and is still running.
const DefaultDrainTimeout = 2 * time.Second

// termGracePeriod is the maximum time to wait for a process to exit after
// SIGTERM before escalating to SIGKILL. The actual grace period is capped
// at the overall timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout is the hard upper bound for waiting on the exit channel
// after SIGKILL has been sent. SIGKILL cannot be caught, so the process should
// exit almost immediately.
const killDrainTimeout = 10 * time.Second

// errorf prefixes err with the process name.
func errorf(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}

// awaitClosed waits for ch to be closed, up to timeout. It reports whether
// ch closed in time.
func awaitClosed(ch <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

// stopResult describes how stopWithExited ended.
type stopResult struct {
	signaled bool // a signal was delivered to a live process
	exited   bool // the exit channel closed
}

// stopWithExited implements the SIGTERM-then-SIGKILL shutdown sequence for a
// process whose exit is reported by closing exited. The goroutine that closes
// exited is the only caller of cmd.Wait, so this never waits on the process
// directly.
//
// Shutdown flow:
//  1. Send SIGTERM for graceful shutdown.
//  2. Schedule SIGKILL via time.AfterFunc after a grace period (canceled if
//     the process exits first).
//  3. Wait for process exit or total timeout.
//
// A process that already finished (os.ErrProcessDone) is reported as exited
// without signaled, so callers can tell it apart from a stop they caused.
func stopWithExited(p *os.Process, exited <-chan struct{}, timeout time.Duration, name string) (stopResult, error) {
	if p == nil {
		return stopResult{}, nil
	}
	if exited == nil {
		return stopResult{}, fmt.Errorf("%s: exit channel must not be nil", name)
	}

	if err := sendTerminate(p); err != nil {
		if !errors.Is(err, os.ErrProcessDone) {
			return stopResult{}, errorf(name, fmt.Errorf("send termination signal: %w", err))
		}
		if !awaitClosed(exited, killDrainTimeout) {
			return stopResult{}, fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return stopResult{exited: true}, nil
	}

	// grace is clamped to timeout so SIGKILL always fires before the total
	// timeout expires.
	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		// Kill after the process was reaped returns os.ErrProcessDone,
		// which is harmless.
		_ = sendKill(p)
	})
	defer killTimer.Stop()

	if awaitClosed(exited, timeout) {
		return stopResult{signaled: true, exited: true}, nil
	}

	_ = sendKill(p)
	if !awaitClosed(exited, killDrainTimeout) {
		return stopResult{signaled: true}, fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
	}
	return stopResult{signaled: true, exited: true}, nil
}
