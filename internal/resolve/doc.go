// Package resolve computes the transitive library closure of a binary.
//
// Closure repeatedly applies direct inspection and locates each reference
// the way the host dynamic linker would: embedded search paths (with $ORIGIN,
// @rpath, @loader_path, and @executable_path expanded), the library path
// environment variable, and the default library directories. A reference
// that cannot be located is kept by name so that nothing is silently
// dropped. No binary is executed.
//
// Host instead asks the system's dynamic loader for the closure it would
// actually map. It runs the loader in trace mode and is available only on
// Linux and FreeBSD.
package resolve
