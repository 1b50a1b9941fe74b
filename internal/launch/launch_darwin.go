//go:build darwin
// +build darwin

package launch

func open(path string) error {
	return startDetached("open", path)
}
