package nativehost

import "time"

// Default configuration values for New. These constants are exported so
// callers can build custom configurations relative to them.
const (
	// DefaultStopTimeout bounds the SIGTERM to SIGKILL escalation used when
	// a running Process is closed or a Run is abandoned.
	DefaultStopTimeout = 10 * time.Second

	// DefaultOutputDrainTimeout is how long Wait waits for the child's
	// standard output to reach EOF after the child exits. A descendant
	// that inherited the pipe can hold it open.
	DefaultOutputDrainTimeout = 2 * time.Second

	// DefaultRunTimeout is the overall deadline Run gives a child to exit.
	DefaultRunTimeout = 10 * time.Minute

	// DefaultResolveConcurrency caps parallel inspections performed by
	// ResolveDependencies.
	DefaultResolveConcurrency = 8
)
