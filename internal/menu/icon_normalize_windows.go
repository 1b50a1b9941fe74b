//go:build windows

package menu

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	ico "github.com/sergeymakinen/go-ico"

	"github.com/example/iconbridge/internal/logging"
)

// platformNormalizeIcon converts icon bytes into the ICO container the
// Windows notification area requires.
func platformNormalizeIcon(data []byte) []byte {
	if len(data) < 4 {
		return nil
	}

	if isICO(data) {
		return data
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logging.Debugf("failed to decode tray icon image: %v", err)
		return nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		logging.Debugf("tray icon image has invalid bounds: %dx%d", bounds.Dx(), bounds.Dy())
		return nil
	}

	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		logging.Debugf("failed to wrap tray icon as ico: %v", err)
		return nil
	}

	logging.Debugf("normalized tray icon (%dx%d) from %s to ico container", bounds.Dx(), bounds.Dy(), format)
	return buf.Bytes()
}
