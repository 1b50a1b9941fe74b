package menu

import (
	"bytes"
	"sync"

	"github.com/fogleman/gg"

	"github.com/example/iconbridge/internal/icon"
	"github.com/example/iconbridge/internal/logging"
)

var (
	defaultIconOnce sync.Once
	defaultIconData []byte
)

// defaultIcon draws the fallback tray icon used when the executable carries
// none.
func defaultIcon() []byte {
	defaultIconOnce.Do(func() {
		dc := gg.NewContext(icon.Size, icon.Size)
		dc.DrawRoundedRectangle(2, 2, icon.Size-4, icon.Size-4, 6)
		dc.SetHexColor("#2f6fde")
		dc.Fill()
		dc.DrawRectangle(10, 10, icon.Size-20, icon.Size-20)
		dc.SetHexColor("#ffffff")
		dc.Fill()

		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			logging.Debugf("failed to draw default tray icon: %v", err)
			return
		}
		defaultIconData = buf.Bytes()
	})
	return defaultIconData
}

func cloneDefaultIcon() []byte {
	return cloneIcon(platformNormalizeIcon(defaultIcon()))
}

func cloneIcon(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp
}

func normalizedIcon(data []byte) []byte {
	if len(data) == 0 {
		return cloneDefaultIcon()
	}
	normalized := platformNormalizeIcon(data)
	if len(normalized) == 0 {
		return cloneDefaultIcon()
	}
	return cloneIcon(normalized)
}
