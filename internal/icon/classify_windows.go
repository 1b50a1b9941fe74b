//go:build windows
// +build windows

package icon

const shortcutSuffix = ".lnk"
