// Package launch opens files and applications with the handler the desktop
// associates with them.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/example/iconbridge/internal/logging"
)

// ErrEmptyPath is returned when Open is called without a target.
var ErrEmptyPath = errors.New("failed to open software: empty path")

// Error reports a launch the shell refused. Code is the value returned by
// the shell; on Windows it is the ShellExecute result.
type Error struct {
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to open software: ShellExecute failed with code %d", e.Code)
}

// Open asks the shell to open path. The call returns once the shell has
// accepted or rejected the request; it never waits for the launched program.
func Open(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	logging.Debugf("opening %s", path)
	return open(path)
}

// checkStatus maps a ShellExecute style return value onto an error. Values
// above 32 mean success.
func checkStatus(code int) error {
	if code > 32 {
		return nil
	}
	return &Error{Code: code}
}

// startDetached starts the handler program without waiting for it to exit.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open software: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Debugf("%s exited: %v", name, err)
		}
	}()
	return nil
}
