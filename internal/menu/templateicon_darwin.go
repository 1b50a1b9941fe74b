//go:build darwin && cgo
// +build darwin,cgo

package menu

import "github.com/getlantern/systray"

func setTrayIcon(icon []byte) {
	systray.SetTemplateIcon(icon, icon)
}
