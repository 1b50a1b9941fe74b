//go:build !windows
// +build !windows

package icon

import (
	"os/exec"
	"time"
)

// NewResolver returns the shortcut resolver for this platform.
func NewResolver(time.Duration) Resolver {
	return NopResolver{}
}

func prepareCommand(*exec.Cmd) {}
