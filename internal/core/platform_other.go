//go:build !unix

package core

import "runtime"

// HostRealization returns the realization for the running operating system.
// Non-unix systems inspect PE binaries and cannot load libraries.
func HostRealization() Realization {
	r := windowsRealization
	r.Name = runtime.GOOS
	return r
}
