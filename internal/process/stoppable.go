package process

import (
	"time"
)

// Compile-time check that Handle can be cleaned up with StopCloseAndNil.
var _ Stoppable = (*Handle)(nil)

// Stoppable represents a process that can be stopped and have its resources closed.
type Stoppable interface {
	Stop(timeout time.Duration) error
	Close()
}

// StopCloseAndNil stops, closes, and nils a Stoppable pointer in a single
// cleanup step. It is safe to call with a nil p or when *p is nil; in both
// cases it returns nil immediately.
//
// P is constrained to both *E and Stoppable so that *p is directly comparable
// to nil without reflection. E is inferred by the compiler.
//
// Close and nil-out always run even when Stop returns an error: a failed Stop
// leaves the process in an unknown state, and its pipes must still be
// released. The Stop error is returned to the caller.
//
// Usage:
//
//	h := process.NewHandle(cfg)
//	defer process.StopCloseAndNil(&h, 10*time.Second)
func StopCloseAndNil[P interface {
	*E
	Stoppable
}, E any](p *P, timeout time.Duration) error {
	if p == nil || *p == nil {
		return nil
	}
	defer func() {
		(*p).Close()
		*p = nil
	}()
	return (*p).Stop(timeout)
}
