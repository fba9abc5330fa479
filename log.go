package nativehost

import (
	"log/slog"

	"github.com/giantswarm/nativehost/internal/core"
)

// SetLogger replaces the package-level logger used by nativehost.
// The provided logger should already have any desired attributes;
// nativehost will not add a component attribute to it.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// A logger passed with WithLogger takes precedence for that Platform.
//
// Example:
//
//	nativehost.SetLogger(myLogger.With("component", "nativehost"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
