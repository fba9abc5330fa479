//go:build unix

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// sendTerminate asks p to exit with SIGTERM.
func sendTerminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}

// sendKill forcibly stops p with SIGKILL.
func sendKill(p *os.Process) error {
	return p.Kill()
}

// expectSignalExit interprets an error from cmd.Wait after sending a
// termination signal. Exits caused by SIGTERM or SIGKILL are expected and
// treated as successful stops.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			sig := status.Signal()
			if sig == unix.SIGTERM || sig == unix.SIGKILL {
				return nil
			}
		}
	}
	return errorf(name, err)
}
