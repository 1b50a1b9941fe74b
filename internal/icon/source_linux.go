//go:build linux
// +build linux

package icon

// NewSource returns the icon source for this platform.
func NewSource() Source {
	return newDesktopSource(defaultIconSearch())
}
