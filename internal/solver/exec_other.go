//go:build !unix

package solver

import "os/exec"

// killProcessGroup is a no-op; cmd.WaitDelay still bounds the wait.
func killProcessGroup(cmd *exec.Cmd) {}
