//go:build !windows

package nativewind

import (
	"os/exec"
	"syscall"
	"time"
)

// killGrace bounds how long Wait keeps pipes open after cancellation.
const killGrace = 5 * time.Second

// setProcessGroup puts the shell and the compiler it spawns in their own group
// so cancellation reaches the whole tree.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace
}
