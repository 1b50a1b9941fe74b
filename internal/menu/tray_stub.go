//go:build !cgo && !windows
// +build !cgo,!windows

package menu

import (
	"context"
	"errors"
)

type stubController struct{}

func newTrayController(func(string) error, func()) trayController {
	return stubController{}
}

// Run reports that the tray is unavailable without cgo.
func (stubController) Run(context.Context, <-chan UpdatePayload) error {
	return errors.New("system tray is unavailable without cgo support")
}
