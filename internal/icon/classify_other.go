//go:build !windows
// +build !windows

package icon

// Shortcut files are only resolved on Windows.
const shortcutSuffix = ""
