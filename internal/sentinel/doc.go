// Package sentinel defines the constant error kind shared by every nativehost
// package.
//
// Kinds are declared as const and attached to a cause with Wrap so that callers
// can match both the kind (ErrLoad, ErrFormat, ...) and the underlying OS
// error (fs.ErrNotExist, syscall.EPIPE, ...) with errors.Is.
package sentinel
