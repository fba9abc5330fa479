// Package process owns the lifecycle of one spawned child process.
//
// A Handle moves through Created, Running, and then exactly one of Exited or
// Terminated. Every state change goes through the pure transition function in
// state.go; the Handle only decides which event happened. Exit is observed
// lazily: a single goroutine per process calls cmd.Wait (reaping the child) and
// closes a channel, and IsRunning, Wait, Terminate, and SetInput consult that
// channel to move Running to Exited.
//
// Standard output is an os.Pipe owned by the Handle and drained by one
// goroutine into a line buffer while the child runs, so a child that writes
// more than a pipe buffer never blocks waiting for the parent.
//
// Process creation runs inside a signal guard that holds SIGINT and SIGQUIT
// for the duration of cmd.Start and restores the previous disposition on
// every return path. A disposition that cannot be restored panics with
// ErrSignalRestore.
//
// Handle is not safe for concurrent use. Callers must serialize access to all
// methods on a single Handle.
package process
