package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/giantswarm/nativehost/internal/policy"
)

// MessageResponse is the answer to a message shown with ShowResponseMessage.
type MessageResponse int

const (
	// ResponseOK means the message was delivered and acknowledged.
	ResponseOK MessageResponse = iota

	// ResponseCancel means the message could not be delivered.
	ResponseCancel
)

// String returns the name of the response.
func (r MessageResponse) String() string {
	switch r {
	case ResponseOK:
		return "ResponseOK"
	case ResponseCancel:
		return "ResponseCancel"
	default:
		return fmt.Sprintf("MessageResponse(%d)", int(r))
	}
}

// PlatformConfig holds configuration for a Platform. All fields are
// immutable after construction via NewPlatform.
type PlatformConfig struct {
	// Realization selects the binary formats and default policy of the
	// host. HostRealization returns the one compiled for this build.
	Realization Realization

	// Policy decides which imports a bundle must carry.
	Policy policy.Policy

	// ImportCacheDir holds the persistent import cache. Empty disables it.
	ImportCacheDir string

	// StopTimeout bounds the SIGTERM/SIGKILL sequence used when a process
	// is closed while still running, and by Run on cancellation.
	StopTimeout time.Duration

	// DrainTimeout bounds the wait for a child's stdout EOF after exit.
	DrainTimeout time.Duration

	// RunTimeout is the overall deadline Run gives a child to exit.
	RunTimeout time.Duration

	// ResolveConcurrency caps parallel inspections in ResolveDependencies.
	ResolveConcurrency int

	// KillOnParentExit asks the kernel to signal children when this
	// process dies (Linux only).
	KillOnParentExit bool

	// MessageWriter receives ShowResponseMessage output.
	MessageWriter io.Writer

	// Stderr receives children's standard error. Nil discards it.
	Stderr io.Writer

	// Logger overrides the package-level logger. Nil uses Logger().
	Logger *slog.Logger
}

// Validate checks all PlatformConfig invariants and returns an error
// describing every violation found, joined with errors.Join.
func (c PlatformConfig) Validate() error {
	var errs []error

	if c.Realization.Name == "" {
		errs = append(errs, errors.New("realization name must not be empty"))
	}
	if len(c.Realization.Formats) == 0 {
		errs = append(errs, errors.New("realization must accept at least one binary format"))
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stop timeout must be greater than 0, got %s", c.StopTimeout))
	}
	if c.DrainTimeout <= 0 {
		errs = append(errs, fmt.Errorf("output drain timeout must be greater than 0, got %s", c.DrainTimeout))
	}
	if c.RunTimeout <= 0 {
		errs = append(errs, fmt.Errorf("run timeout must be greater than 0, got %s", c.RunTimeout))
	}
	if c.ResolveConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("resolve concurrency must be greater than 0, got %d", c.ResolveConcurrency))
	}
	if c.MessageWriter == nil {
		errs = append(errs, errors.New("message writer must not be nil"))
	}

	return errors.Join(errs...)
}
