//go:build darwin
// +build darwin

package icon

// NewSource returns the icon source for this platform.
func NewSource() Source {
	return bundleSource{}
}
