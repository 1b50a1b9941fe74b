//go:build !windows && !linux && !darwin
// +build !windows,!linux,!darwin

package icon

// NewSource returns the icon source for this platform.
func NewSource() Source {
	return unsupportedSource{}
}
