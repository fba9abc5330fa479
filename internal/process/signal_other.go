//go:build !unix

package process

import (
	"errors"
	"os"
	"os/exec"
)

// sendTerminate stops p. Hosts without POSIX signals have no graceful
// termination request, so this is the same as sendKill.
func sendTerminate(p *os.Process) error {
	return p.Kill()
}

func sendKill(p *os.Process) error {
	return p.Kill()
}

// expectSignalExit treats any *exec.ExitError as an expected result of Kill.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return errorf(name, err)
}
