//go:build unix

package solver

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the engine in its own process group and kills the
// whole group on cancellation, so wrapper scripts take their children down
// with them.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
