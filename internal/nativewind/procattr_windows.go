//go:build windows

package nativewind

import (
	"os/exec"
	"time"
)

const killGrace = 5 * time.Second

func setProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = killGrace
}
