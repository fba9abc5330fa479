package process

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/giantswarm/nativehost/internal/sentinel"
	"github.com/google/uuid"
)

// ErrAlreadyStarted is recorded when Execute is called on a Handle that has
// already left the Created state. A Handle runs at most one process.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrEmptyPath is recorded when Execute is called with an empty application path.
const ErrEmptyPath = sentinel.Error("application path must not be empty")

// ErrClosedPipe is returned by SetInput when the child's standard input can
// no longer be written because the process exited or was terminated.
const ErrClosedPipe = sentinel.Error("write on closed process pipe")

// ErrSignalRestore is the panic value raised when the interrupt and quit
// signal disposition could not be restored after process creation.
const ErrSignalRestore = sentinel.Error("signal disposition not restored")

// Config configures a Handle. The zero value is usable.
type Config struct {
	// Logger receives lifecycle messages. Nil uses slog.Default().
	Logger *slog.Logger

	// Dir is the child's working directory. Empty inherits the caller's.
	Dir string

	// Env is the child's environment. Nil inherits the caller's.
	Env []string

	// Stderr receives the child's standard error. Nil discards it.
	Stderr io.Writer

	// StopTimeout bounds the auto-stop performed by Close. Zero uses
	// DefaultStopTimeout.
	StopTimeout time.Duration

	// DrainTimeout bounds the wait for stdout EOF after exit. Zero uses
	// DefaultDrainTimeout.
	DrainTimeout time.Duration

	// KillOnParentExit delivers SIGTERM to the child if the parent dies
	// (Linux only).
	KillOnParentExit bool
}

// exitStatus is written once by the wait goroutine before it closes exited.
type exitStatus struct {
	err  error
	code int
}

// Handle represents one spawned OS process together with its standard input
// and output pipes.
//
// Handle is not safe for concurrent use. The drain goroutine only touches the
// line buffer, and the wait goroutine only writes status before closing
// exited; everything else belongs to the caller.
type Handle struct {
	id    string
	name  string
	cfg   Config
	log   *slog.Logger
	state State

	cmd     *exec.Cmd
	stdin   *os.File
	stdout  *os.File
	out     lineBuffer
	drained <-chan struct{}
	exited  <-chan struct{}
	status  exitStatus

	startErr error
	result   bool
}

// NewHandle returns a Handle in the Created state.
func NewHandle(cfg Config) *Handle {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}
	id := uuid.NewString()
	return &Handle{
		id:  id,
		cfg: cfg,
		log: log.With("handle", id),
	}
}

// ID returns the unique identifier of this Handle, used in log entries.
func (h *Handle) ID() string {
	return h.id
}

// State returns the last observed state without polling the child.
func (h *Handle) State() State {
	return h.state
}

// PID returns the OS process identifier, or 0 before a successful Execute.
func (h *Handle) PID() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Err returns why the last Execute returned false, or nil.
func (h *Handle) Err() error {
	return h.startErr
}

// Exited returns a channel closed when the child exits. It is safe to select
// on from any number of goroutines. Returns nil before a successful Execute.
func (h *Handle) Exited() <-chan struct{} {
	return h.exited
}

// ExitCode returns the child's exit code once exit has been observed, or -1
// if the process is still running, was never started, or was killed by a
// signal.
func (h *Handle) ExitCode() int {
	if h.exited == nil || !h.state.Terminal() {
		return -1
	}
	select {
	case <-h.exited:
		return h.status.code
	default:
		return -1
	}
}

// apply moves the Handle to the state that follows ev. Invalid events are
// logged and leave the state unchanged.
func (h *Handle) apply(ev event) bool {
	next, err := transition(h.state, ev)
	if err != nil {
		h.log.Debug("state transition ignored", "process", h.name, "error", err)
		return false
	}
	h.log.Debug("process state changed", "process", h.name, "pid", h.PID(), "from", h.state, "to", next)
	h.state = next
	return true
}

// Execute starts applicationPath with arguments and moves the Handle from
// Created to Running. With waitForCompletion it blocks until the child exits
// and the Handle is Exited.
//
// Execute returns false, leaving the Handle in Created, when the process
// cannot be created: missing binary, permission denied, or resource
// exhaustion. The cause is available from Err. Probing for an optional helper
// binary is expected to fail this way, so no error is logged above debug.
func (h *Handle) Execute(applicationPath string, arguments []string, waitForCompletion bool) bool {
	if h.state != StateCreated {
		h.startErr = ErrAlreadyStarted
		h.log.Warn("execute called on a used process handle", "state", h.state)
		return false
	}
	if applicationPath == "" {
		h.startErr = ErrEmptyPath
		return false
	}

	h.name = filepath.Base(applicationPath)
	if err := h.start(applicationPath, arguments); err != nil {
		h.startErr = err
		h.log.Debug("process creation failed", "path", applicationPath, "error", err)
		return false
	}
	h.startErr = nil
	h.apply(eventStarted)

	if waitForCompletion {
		h.Wait()
	}
	return true
}

// start creates the pipes, starts the command inside the signal guard, and
// launches the wait and drain goroutines. On error every descriptor it
// opened is closed.
func (h *Handle) start(path string, args []string) (retErr error) {
	cmd := exec.Command(path, args...)
	cmd.Dir = h.cfg.Dir
	cmd.Env = h.cfg.Env
	cmd.Stderr = h.cfg.Stderr
	configureSysProcAttr(cmd, h.cfg.KillOnParentExit)

	outR, outW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	inR, inW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	defer func() {
		// The child holds its own copies of these ends after Start.
		_ = outW.Close()
		_ = inR.Close()
		if retErr != nil {
			_ = outR.Close()
			_ = inW.Close()
		}
	}()
	cmd.Stdout = outW
	cmd.Stdin = inR

	if err := startGuarded(cmd, h.log); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}

	h.cmd = cmd
	h.stdin = inW
	h.stdout = outR
	h.drained = h.out.drain(outR, h.log)

	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		h.status = exitStatus{err: err, code: cmd.ProcessState.ExitCode()}
		close(exited)
	}()
	h.exited = exited

	h.log.Debug("process started", "process", h.name, "pid", cmd.Process.Pid)
	return nil
}

// startGuarded runs cmd.Start with SIGINT and SIGQUIT held. The disposition
// is restored before startGuarded returns on every path.
func startGuarded(cmd *exec.Cmd, log *slog.Logger) error {
	guard := holdInterrupts(log)
	defer guard.mustRelease()
	return cmd.Start()
}

// poll performs the non-blocking liveness check: if the child exited since
// the last observation, the Handle moves from Running to Exited.
func (h *Handle) poll() {
	if h.state != StateRunning {
		return
	}
	select {
	case <-h.exited:
		h.observeExit()
	default:
	}
}

// observeExit records an exit the caller already saw on the exited channel.
func (h *Handle) observeExit() {
	h.result = h.status.err == nil
	h.apply(eventExited)
}

// awaitOutput waits, bounded by DrainTimeout, for the stdout pipe to reach EOF
// so that Output includes everything the child wrote before exiting.
func (h *Handle) awaitOutput() {
	if h.drained == nil {
		return
	}
	if !awaitClosed(h.drained, h.cfg.DrainTimeout) {
		h.log.Warn("stdout still open after exit; a descendant may hold the pipe",
			"process", h.name, "pid", h.PID())
	}
}

// IsRunning reports whether the child is still running. It never blocks; if
// the child exited since the last check, the Handle transitions to Exited.
func (h *Handle) IsRunning() bool {
	h.poll()
	return h.state == StateRunning
}

// Wait blocks until the child exits, then moves the Handle from Running to
// Exited. It reports whether the child exited with status 0.
//
// From Exited it returns the previously observed result. From Terminated it
// waits for the child to be reaped and returns false. From Created it
// returns false.
func (h *Handle) Wait() bool {
	switch h.state {
	case StateCreated:
		return false
	case StateExited:
		h.awaitOutput()
		return h.result
	case StateTerminated:
		<-h.exited
		h.awaitOutput()
		return false
	}

	<-h.exited
	h.observeExit()
	h.awaitOutput()
	return h.result
}

// Terminate sends a termination signal to a running child and moves the
// Handle to Terminated. It reports false without signaling when the child
// already exited (the Handle moves to Exited instead) or when the Handle is
// not Running. The child may ignore the signal; Wait still reaps it.
func (h *Handle) Terminate() bool {
	if h.state != StateRunning {
		return false
	}
	select {
	case <-h.exited:
		h.log.Debug("terminate: process already exited", "process", h.name, "pid", h.PID())
		h.observeExit()
		return false
	default:
	}

	if err := sendTerminate(h.cmd.Process); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			<-h.exited
			h.observeExit()
			return false
		}
		h.log.Warn("terminate failed", "process", h.name, "pid", h.PID(), "error", err)
		return false
	}
	return h.apply(eventTerminated)
}

// Output returns the lines the child wrote to standard output so far. It
// never blocks and may be called in any state. After Wait returns it holds
// everything the child wrote.
func (h *Handle) Output() []string {
	return h.out.snapshot()
}

// OutputSize returns the number of bytes captured from standard output so far.
func (h *Handle) OutputSize() int64 {
	return h.out.size()
}

// SetInput writes value to the child's standard input. It returns
// ErrClosedPipe once the child has exited or been terminated.
func (h *Handle) SetInput(value string) error {
	h.poll()
	if h.state != StateRunning || h.stdin == nil {
		return ErrClosedPipe
	}
	if _, err := io.WriteString(h.stdin, value); err != nil {
		return ErrClosedPipe.Wrap(err)
	}
	return nil
}

// CloseInput closes the child's standard input so it reads EOF.
func (h *Handle) CloseInput() error {
	if h.stdin == nil {
		return nil
	}
	err := h.stdin.Close()
	h.stdin = nil
	if err != nil {
		return fmt.Errorf("close stdin: %w", err)
	}
	return nil
}

// Stop terminates the child with the given timeout, escalating from SIGTERM
// to SIGKILL. A child that already exited moves the Handle to Exited and Stop
// returns nil. Safe to call in any state.
func (h *Handle) Stop(timeout time.Duration) error {
	if h.cmd == nil {
		return nil
	}
	select {
	case <-h.exited:
		h.poll()
		return nil
	default:
	}

	res, err := stopWithExited(h.cmd.Process, h.exited, timeout, h.name)
	if err != nil {
		h.log.Warn("process stop failed; process may be orphaned",
			"process", h.name, "pid", h.PID(), "error", err)
		if res.signaled {
			h.apply(eventTerminated)
		}
		return err
	}
	if !res.signaled {
		h.poll()
		return nil
	}
	if h.state == StateRunning {
		h.apply(eventTerminated)
	}
	h.awaitOutput()
	return expectSignalExit(h.status.err, h.name)
}

// Close releases the Handle's pipes. If the child is still alive (Stop or
// Wait was not called first), Close logs a warning and stops it with the
// configured StopTimeout so that no zombie or descriptor is leaked.
func (h *Handle) Close() {
	if h.cmd != nil && h.alive() {
		h.log.Warn("process.Close called on a live process; stopping automatically",
			"process", h.name, "pid", h.PID())
		if err := h.Stop(h.cfg.StopTimeout); err != nil {
			h.log.Warn("auto-stop during Close failed", "process", h.name, "error", err)
		}
	}
	_ = h.CloseInput()
	if h.stdout != nil {
		// Unblocks the drain goroutine if a descendant still holds the
		// write end.
		_ = h.stdout.Close()
		h.stdout = nil
	}
}

// alive reports whether the wait goroutine has not yet seen the child exit.
func (h *Handle) alive() bool {
	if h.exited == nil {
		return false
	}
	select {
	case <-h.exited:
		return false
	default:
		return true
	}
}
