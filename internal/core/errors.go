package core

import (
	"github.com/giantswarm/nativehost/internal/inspect"
	"github.com/giantswarm/nativehost/internal/modload"
	"github.com/giantswarm/nativehost/internal/policy"
	"github.com/giantswarm/nativehost/internal/process"
	"github.com/giantswarm/nativehost/internal/sentinel"
)

// Sentinel errors of the leaf packages, re-exported so the public API
// imports errors only from core.
const (
	ErrLoad           = modload.ErrLoad
	ErrSymbolNotFound = modload.ErrSymbolNotFound
	ErrModuleClosed   = modload.ErrModuleClosed
	ErrFormat         = inspect.ErrFormat
	ErrInvalidPolicy  = policy.ErrInvalidPolicy
	ErrAlreadyStarted = process.ErrAlreadyStarted
	ErrEmptyPath      = process.ErrEmptyPath
	ErrClosedPipe     = process.ErrClosedPipe
	ErrSignalRestore  = process.ErrSignalRestore
	ErrUnsupported    = sentinel.ErrUnsupported
)
