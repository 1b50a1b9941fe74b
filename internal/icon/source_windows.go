//go:build windows
// +build windows

package icon

// NewSource returns the icon source for this platform.
func NewSource() Source {
	return nativeSource{api: winAPI{}, defaultIcon: registryDefaultIcon}
}
