//go:build !unix

package process

import "log/slog"

// Disposition is empty on hosts without POSIX signal dispositions.
type Disposition struct{}

// CurrentDisposition returns the zero Disposition.
func CurrentDisposition() Disposition {
	return Disposition{}
}

type signalGuard struct{}

// holdInterrupts is a no-op: process creation on this host is not a fork and
// console interrupts are delivered to the whole process group by the OS.
func holdInterrupts(_ *slog.Logger) *signalGuard {
	return &signalGuard{}
}

func (g *signalGuard) release() error { return nil }

func (g *signalGuard) mustRelease() {}
