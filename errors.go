package nativehost

import "github.com/giantswarm/nativehost/internal/core"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrLoad is returned by LoadLibrary when the library cannot be mapped:
	// missing file, wrong architecture, or an unresolvable dependency.
	ErrLoad = core.ErrLoad

	// ErrSymbolNotFound is returned by GetProcAddress and Module.Bind when
	// the library does not export the symbol.
	ErrSymbolNotFound = core.ErrSymbolNotFound

	// ErrModuleClosed is returned when a Module is used after FreeLibrary.
	ErrModuleClosed = core.ErrModuleClosed

	// ErrFormat is returned by GetLibraryImports for a file that is not a
	// binary in the host's executable format.
	ErrFormat = core.ErrFormat

	// ErrInvalidPolicy is returned when a policy file cannot be parsed or
	// fails validation.
	ErrInvalidPolicy = core.ErrInvalidPolicy

	// ErrAlreadyStarted is reported by Process.Err when Execute is called
	// twice on the same Process.
	ErrAlreadyStarted = core.ErrAlreadyStarted

	// ErrEmptyPath is reported by Process.Err when Execute is called with
	// an empty path.
	ErrEmptyPath = core.ErrEmptyPath

	// ErrNotStarted is returned by Run when the child could not be created.
	ErrNotStarted = core.ErrNotStarted

	// ErrClosedPipe is returned by Process.SetInput once the child has
	// exited or been terminated.
	ErrClosedPipe = core.ErrClosedPipe

	// ErrSignalRestore is the panic value raised if the signal disposition
	// saved around process creation cannot be restored.
	ErrSignalRestore = core.ErrSignalRestore

	// ErrUnsupported is returned by operations the host cannot perform,
	// such as HostDependencies on Darwin.
	ErrUnsupported = core.ErrUnsupported
)
