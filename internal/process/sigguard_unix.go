//go:build unix

package process

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Disposition records whether the interrupt and quit signals are ignored by
// the calling process. Two snapshots taken around Execute compare equal.
type Disposition struct {
	Interrupt bool
	Quit      bool
}

// CurrentDisposition returns the process-wide disposition of SIGINT and SIGQUIT.
func CurrentDisposition() Disposition {
	return Disposition{
		Interrupt: signal.Ignored(syscall.SIGINT),
		Quit:      signal.Ignored(syscall.SIGQUIT),
	}
}

// signalGuard holds SIGINT and SIGQUIT for the process-creation window.
// Signals already ignored are left alone; the others are routed to a private
// channel so their default action cannot run while a child is half-created.
type signalGuard struct {
	saved Disposition
	held  []os.Signal
	ch    chan os.Signal
	log   *slog.Logger
}

// holdInterrupts saves the current disposition and starts holding the
// interrupt and quit signals. Callers must defer mustRelease.
func holdInterrupts(log *slog.Logger) *signalGuard {
	g := &signalGuard{
		saved: CurrentDisposition(),
		ch:    make(chan os.Signal, 2),
		log:   log,
	}
	if !g.saved.Interrupt {
		g.held = append(g.held, syscall.SIGINT)
	}
	if !g.saved.Quit {
		g.held = append(g.held, syscall.SIGQUIT)
	}
	if len(g.held) > 0 {
		signal.Notify(g.ch, g.held...)
	}
	return g
}

// release stops holding signals and verifies the disposition matches the
// snapshot taken by holdInterrupts. Signals that arrived while held are
// dropped and logged, matching the ignore-in-parent semantics of system(3).
func (g *signalGuard) release() error {
	if len(g.held) > 0 {
		signal.Stop(g.ch)
		for drained := false; !drained; {
			select {
			case sig := <-g.ch:
				g.log.Warn("signal suppressed during process creation", "signal", sig.String())
			default:
				drained = true
			}
		}
	}
	if now := CurrentDisposition(); now != g.saved {
		return ErrSignalRestore.Errorf("disposition is %+v, want %+v", now, g.saved)
	}
	return nil
}

// mustRelease calls release and panics if the disposition could not be
// restored. A corrupted disposition changes signal behavior for the rest of
// the program, so it is never returned as an ordinary error.
func (g *signalGuard) mustRelease() {
	if err := g.release(); err != nil {
		panic(err)
	}
}
