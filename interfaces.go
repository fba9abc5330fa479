package nativehost

import (
	"context"
	"time"
)

// Platform is the per-OS capability set: process creation, shared library
// loading, and dependency discovery.
//
// A Platform is safe for concurrent use. The values it returns are not:
// each Process and Module has a single owner.
type Platform interface {
	// CreateProcess returns a new Process in the Created state. Nothing is
	// started until Execute.
	CreateProcess() Process

	// LoadLibrary maps the shared library at path into this process. A
	// path containing a separator must exist; a bare name is searched the
	// way the host loader searches. Returns an error wrapping ErrLoad on
	// failure and never a partial Module.
	LoadLibrary(path string) (Module, error)

	// FreeLibrary unloads m. Freeing a Module twice returns ErrModuleClosed.
	FreeLibrary(m Module) error

	// GetProcAddress returns the address of the named symbol. Returns
	// ErrSymbolNotFound if m does not export it.
	GetProcAddress(m Module, name string) (Procedure, error)

	// GetLibraryImports returns the libraries the binary at path declares
	// as direct dependencies, in declaration order and without
	// de-duplication. Nothing is executed. Returns an error wrapping
	// ErrFormat if the file is not a binary in the host's format.
	GetLibraryImports(path string) ([]string, error)

	// FilterOutRuntimeDependencies drops the imports the configured Policy
	// treats as provided by the target system, preserving order.
	FilterOutRuntimeDependencies(imports []string) []string

	// Policy returns a copy of the configured bundling policy.
	Policy() Policy

	// ResolveDependencies returns the sorted transitive closure of the
	// binary's library dependencies by repeated inspection. References
	// that cannot be located are kept by name.
	ResolveDependencies(ctx context.Context, path string) ([]string, error)

	// HostDependencies asks the host dynamic loader which libraries it
	// maps for path. Unlike GetLibraryImports this runs the loader in
	// trace mode. Returns ErrUnsupported outside Linux and FreeBSD.
	HostDependencies(path string) ([]string, error)

	// Run executes path with args, waits for it to exit within the run
	// timeout, and returns its status and standard output. The child is
	// stopped if ctx is canceled first.
	Run(ctx context.Context, path string, args ...string) (*RunResult, error)

	// SetCurrentDirectory changes this process's working directory.
	SetCurrentDirectory(dir string) error

	// ShowResponseMessage writes "title description" to the message
	// writer.
	ShowResponseMessage(title, description string) MessageResponse

	// Close releases the import cache. The Platform remains usable.
	Close() error
}

// Process is one spawned child with its standard input and output pipes.
//
// States move Created → Running → Exited or Terminated. A Process is not
// safe for concurrent use, except that Output, OutputSize, and Exited may
// be called from any goroutine.
type Process interface {
	// ID returns an identifier unique to this Process, used in log entries.
	ID() string

	// State returns the last observed state without polling the child.
	State() State

	// PID returns the OS process identifier, or 0 before Execute succeeds.
	PID() int

	// Execute starts path and moves the Process to Running. With
	// waitForCompletion it also blocks until the child exits. It returns
	// false, leaving the Process in Created, when the child could not be
	// created; Err reports why.
	Execute(path string, args []string, waitForCompletion bool) bool

	// Err returns why the last Execute returned false.
	Err() error

	// IsRunning reports whether the child is still running, without
	// blocking.
	IsRunning() bool

	// Wait blocks until the child exits and reports whether it exited with
	// status 0.
	Wait() bool

	// Terminate sends the child a termination request. It returns false if
	// the child already exited or was never started.
	Terminate() bool

	// Stop terminates the child, escalating to a kill after timeout.
	Stop(timeout time.Duration) error

	// Close releases the pipes, stopping the child first if it is still
	// alive.
	Close()

	// Exited is closed when the child exits. Nil before Execute succeeds.
	Exited() <-chan struct{}

	// ExitCode returns the exit status once observed, otherwise -1.
	ExitCode() int

	// Output returns the standard output lines captured so far.
	Output() []string

	// OutputSize returns the number of standard output bytes captured so
	// far.
	OutputSize() int64

	// SetInput writes to the child's standard input. Returns ErrClosedPipe
	// once the child has exited or been terminated.
	SetInput(value string) error

	// CloseInput closes the child's standard input.
	CloseInput() error
}

// Module is a loaded shared library.
type Module interface {
	// Path returns the path LoadLibrary was called with.
	Path() string

	// Bind resolves the named symbol and stores a callable Go function in
	// the variable fnPtr points to. The C signature must match.
	Bind(fnPtr any, name string) error
}

// Procedure is the address of an exported symbol. It is valid only while
// the Module it came from is loaded.
type Procedure uintptr
