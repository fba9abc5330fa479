package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/giantswarm/nativehost/internal/process"
)

// runPollInterval is how often Run checks whether the child has exited.
const runPollInterval = 20 * time.Millisecond

// RunResult describes a child process that Run waited for.
type RunResult struct {
	PID      int
	ExitCode int
	Success  bool
	Output   []string
}

// Run starts path with args, waits up to RunTimeout for it to exit, and
// returns its exit status and captured standard output. If ctx is canceled
// or the deadline passes, the child is stopped and the error is returned.
func (p *Platform) Run(ctx context.Context, path string, args ...string) (*RunResult, error) {
	h := p.CreateProcess()
	name := filepath.Base(path)
	defer func() {
		if err := process.StopCloseAndNil(&h, p.cfg.StopTimeout); err != nil {
			p.log.Warn("stop after run failed", "process", name, "error", err)
		}
	}()

	if !h.Execute(path, args, false) {
		return nil, ErrNotStarted.Wrap(h.Err())
	}

	err := process.WaitExit(ctx, h, process.WaitExitConfig{
		Interval: runPollInterval,
		Timeout:  p.cfg.RunTimeout,
		Name:     name,
		Logger:   p.log,
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", path, err)
	}

	ok := h.Wait()
	return &RunResult{
		PID:      h.PID(),
		ExitCode: h.ExitCode(),
		Success:  ok,
		Output:   h.Output(),
	}, nil
}
