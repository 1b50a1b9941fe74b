//go:build !windows && !darwin
// +build !windows,!darwin

package launch

func open(path string) error {
	return startDetached("xdg-open", path)
}
