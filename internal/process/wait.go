package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Sentinel errors returned by WaitExit for invalid configuration. Callers can
// match these with errors.Is through wrapped error chains.
var (
	// ErrIntervalNotPositive indicates a non-positive poll interval.
	ErrIntervalNotPositive = errors.New("interval must be positive")

	// ErrTimeoutNotPositive indicates a non-positive timeout.
	ErrTimeoutNotPositive = errors.New("timeout must be positive")
)

// Poller is the part of a process WaitExit needs: a non-blocking liveness
// check that records the exit when it observes one.
type Poller interface {
	IsRunning() bool
}

// WaitExitConfig configures WaitExit.
type WaitExitConfig struct {
	Interval time.Duration // Poll interval
	Timeout  time.Duration // Overall deadline
	Name     string        // For logging and error messages
	Logger   *slog.Logger  // Optional logger (defaults to slog.Default())
}

// WaitExit polls p.IsRunning until it reports false, the timeout elapses, or
// ctx is canceled. It is the deadline primitive for callers that must not
// block indefinitely in Wait; on timeout the process is left running and the
// caller decides whether to Terminate or Stop it.
func WaitExit(ctx context.Context, p Poller, cfg WaitExitConfig) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s exit: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("wait for %s exit: %w", cfg.Name, ErrTimeoutNotPositive)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// PollUntilContextTimeout calls the condition sequentially, so attempt
	// needs no synchronization.
	attempt := 0
	err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(context.Context) (bool, error) {
			attempt++
			if p.IsRunning() {
				return false, nil
			}
			log.Debug("process exit observed", "process", cfg.Name, "attempt", attempt)
			return true, nil
		})
	if err != nil {
		return fmt.Errorf("wait for %s exit: %w", cfg.Name, err)
	}
	return nil
}
