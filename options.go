package nativehost

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("nativehost: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("nativehost: %s must not be empty", name))
	}
}

// Option configures a Platform during construction via New.
//
// Several With* functions panic on invalid input (non-positive durations,
// empty paths, nil writers). Option values are typically constants, so an
// invalid value is a programmer error; the pattern mirrors
// [regexp.MustCompile].
type Option func(*platformConfig)

// WithLogger sets the logger used by this Platform and the processes it
// creates, overriding the package-level logger from SetLogger.
// Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("nativehost: logger must not be nil")
	}
	return func(c *platformConfig) {
		c.Logger = l
	}
}

// WithPolicy replaces the host's default bundling policy. It overrides an
// earlier WithPolicyFile.
//
// Panics if p fails validation.
func WithPolicy(p Policy) Option {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("nativehost: %v", err))
	}
	p = p.Clone()
	return func(c *platformConfig) {
		c.Policy = p.Clone()
		c.policyFile = ""
	}
}

// WithPolicyFile reads the bundling policy from a YAML file when New runs.
// New returns an error wrapping ErrInvalidPolicy if the file is malformed.
// It overrides an earlier WithPolicy.
//
// Panics if path is empty.
func WithPolicyFile(path string) Option {
	requireNonEmpty("policy file path", path)
	return func(c *platformConfig) {
		c.policyFile = path
	}
}

// WithBundledRuntime declares whether the bundle ships its own language
// runtime. When true, the policy's runtime libraries are excluded as well.
// It applies on top of whichever policy is configured.
//
// Default: the policy's own setting (false for the built-in policies).
func WithBundledRuntime(bundled bool) Option {
	return func(c *platformConfig) {
		c.bundledRuntime = &bundled
	}
}

// WithImportCache persists GetLibraryImports results in dir, keyed by file
// content, so unchanged binaries are not parsed again. The directory is
// created if needed and may be shared between processes.
// DefaultImportCacheDir returns the conventional per-user location.
//
// Panics if dir is empty.
func WithImportCache(dir string) Option {
	requireNonEmpty("import cache directory", dir)
	return func(c *platformConfig) {
		c.ImportCacheDir = dir
	}
}

// WithStopTimeout sets how long a Process closed while running, or a Run
// that is abandoned, waits after SIGTERM before sending SIGKILL.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) Option {
	requirePositive("stop timeout", d)
	return func(c *platformConfig) {
		c.StopTimeout = d
	}
}

// WithOutputDrainTimeout sets how long Wait waits for standard output to
// reach EOF after the child exits.
//
// Default: 2 seconds.
//
// Panics if d <= 0.
func WithOutputDrainTimeout(d time.Duration) Option {
	requirePositive("output drain timeout", d)
	return func(c *platformConfig) {
		c.DrainTimeout = d
	}
}

// WithRunTimeout sets the overall deadline Run gives a child to exit.
//
// Default: 10 minutes.
//
// Panics if d <= 0.
func WithRunTimeout(d time.Duration) Option {
	requirePositive("run timeout", d)
	return func(c *platformConfig) {
		c.RunTimeout = d
	}
}

// WithResolveConcurrency caps the number of binaries ResolveDependencies
// inspects in parallel.
//
// Default: 8.
//
// Panics if n <= 0.
func WithResolveConcurrency(n int) Option {
	requirePositive("resolve concurrency", n)
	return func(c *platformConfig) {
		c.ResolveConcurrency = n
	}
}

// WithMessageWriter sets where ShowResponseMessage writes.
//
// Default: os.Stdout.
//
// Panics if w is nil.
func WithMessageWriter(w io.Writer) Option {
	if w == nil {
		panic("nativehost: message writer must not be nil")
	}
	return func(c *platformConfig) {
		c.MessageWriter = w
	}
}

// WithStderr sets where child processes' standard error goes. Nil discards
// it, which is the default.
func WithStderr(w io.Writer) Option {
	return func(c *platformConfig) {
		c.Stderr = w
	}
}

// WithKillOnParentExit asks the kernel to send SIGTERM to child processes
// if this process dies. Only Linux supports it; elsewhere it has no effect.
//
// Default: false.
func WithKillOnParentExit(enabled bool) Option {
	return func(c *platformConfig) {
		c.KillOnParentExit = enabled
	}
}
