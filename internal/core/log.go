package core

import (
	"log/slog"
	"sync/atomic"
)

// logger is the package-level logger used by nativehost. Named "logger"
// instead of "log" to avoid shadowing the stdlib "log" package.
//
// A nil value means no custom logger has been set; Logger() will fall back to
// a cached default derived from slog.Default().
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches slog.Default() with the nativehost component
// attribute. If slog.SetDefault() is called after the first Logger() call,
// the cached logger does not reflect the change until SetLogger(nil) clears
// it.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the current package-level logger. If no custom logger has
// been set via SetLogger, it returns a cached logger derived from
// slog.Default() with the nativehost component attribute. It is safe to call
// from multiple goroutines.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := newDefaultLogger()
	// If another goroutine already stored a logger, use theirs.
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	// A concurrent SetLogger may have cleared the winner's value; never
	// return nil.
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

func newDefaultLogger() *slog.Logger {
	return slog.Default().With("component", "nativehost")
}

// SetLogger replaces the package-level logger used by nativehost.
// If l is nil, the logger resets to the default: slog.Default() with the
// "component" attribute, re-derived on the next Logger() call and then
// cached.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
