//go:build windows
// +build windows

package icon

import (
	"os/exec"
	"syscall"
	"time"
)

const createNoWindow = 0x08000000

// NewResolver returns the shortcut resolver for this platform.
func NewResolver(timeout time.Duration) Resolver {
	return NewShellResolver(timeout)
}

func prepareCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}
