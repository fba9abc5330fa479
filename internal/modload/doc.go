// Package modload loads shared libraries into the calling process and
// resolves exported symbols.
//
// On darwin, freebsd, and linux the loader is the system dynamic linker
// reached through dlopen, dlsym, and dlclose without cgo. Elsewhere every
// operation returns sentinel.ErrUnsupported.
//
// A Library has a single owner. Close releases it exactly once; later calls
// to Close or Symbol return ErrModuleClosed instead of touching unmapped
// memory.
package modload
