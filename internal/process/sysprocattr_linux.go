//go:build linux

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureSysProcAttr sets Linux-specific process attributes on cmd.
// With killOnParentExit the child receives SIGTERM when the packaging tool
// dies, so helper processes are not left behind after an abrupt exit.
func configureSysProcAttr(cmd *exec.Cmd, killOnParentExit bool) {
	if !killOnParentExit {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: unix.SIGTERM,
	}
}
