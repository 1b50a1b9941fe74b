//go:build !windows

package menu

// platformNormalizeIcon returns data unchanged; the tray accepts PNG here.
func platformNormalizeIcon(data []byte) []byte {
	if len(data) < 4 {
		return nil
	}
	return data
}
