package sentinel

import "fmt"

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an immutable error type backed by a string constant.
// Error values can be declared as const and compared with errors.Is through
// wrapped error chains.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}

// Wrap returns an error that matches both e and cause under errors.Is.
// The message reads "<sentinel>: <cause>". A nil cause returns e itself.
func (e Error) Wrap(cause error) error {
	if cause == nil {
		return e
	}
	return fmt.Errorf("%w: %w", e, cause)
}

// Errorf returns an error matching e whose message is "<sentinel>: <detail>".
func (e Error) Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// ErrUnsupported is returned by operations the host platform cannot perform,
// such as loading a shared library on a system without dlopen.
const ErrUnsupported = Error("not supported on this platform")
