package core

import (
	"log/slog"
	"testing"
)

// TestSetLogger mutates package state and must not run in parallel.
func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	if Logger() == nil {
		t.Fatal("default Logger() = nil")
	}
	if Logger() != Logger() {
		t.Error("default logger is not cached")
	}

	custom := slog.New(slog.DiscardHandler)
	SetLogger(custom)
	if Logger() != custom {
		t.Error("Logger() did not return the custom logger")
	}

	SetLogger(nil)
	if got := Logger(); got == nil || got == custom {
		t.Errorf("Logger() after reset = %v, want a fresh default", got)
	}
}
