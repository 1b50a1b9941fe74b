//go:build (cgo || windows) && !darwin
// +build cgo windows
// +build !darwin

package menu

import "github.com/getlantern/systray"

func setTrayIcon(icon []byte) {
	systray.SetIcon(icon)
}
