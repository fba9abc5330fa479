//go:build unix

package core

import "runtime"

// HostRealization returns the realization for the running operating system.
// Unix systems other than Linux and Darwin use ELF with the Linux policy.
func HostRealization() Realization {
	switch runtime.GOOS {
	case "darwin", "ios":
		return darwinRealization
	case "linux", "android":
		return linuxRealization
	}
	r := linuxRealization
	r.Name = runtime.GOOS
	return r
}
