//go:build unix

package process

import (
	"errors"
	"log/slog"
	"testing"
)

// These tests touch process-wide signal state and do not run in parallel.

func TestSignalGuard_RestoresDisposition(t *testing.T) {
	before := CurrentDisposition()

	g := holdInterrupts(slog.Default())
	if err := g.release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if after := CurrentDisposition(); after != before {
		t.Errorf("disposition = %+v, want %+v", after, before)
	}
}

func TestSignalGuard_HoldsOnlyUnignored(t *testing.T) {
	g := holdInterrupts(slog.Default())
	defer g.mustRelease()

	want := 0
	if !g.saved.Interrupt {
		want++
	}
	if !g.saved.Quit {
		want++
	}
	if len(g.held) != want {
		t.Errorf("held %d signals, want %d", len(g.held), want)
	}
}

func TestSignalGuard_MismatchPanics(t *testing.T) {
	g := holdInterrupts(slog.Default())
	// Force a mismatch by corrupting the snapshot.
	g.saved.Interrupt = !g.saved.Interrupt

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on disposition mismatch")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T, want error", r)
		}
		if !errors.Is(err, ErrSignalRestore) {
			t.Errorf("panic = %v, want %v", err, ErrSignalRestore)
		}
	}()
	g.mustRelease()
}
