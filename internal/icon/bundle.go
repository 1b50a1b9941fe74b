package icon

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/example/iconbridge/internal/logging"
)

type bundleInfo struct {
	IconFile string `plist:"CFBundleIconFile"`
}

// bundleSource reads icons from macOS application bundles.
type bundleSource struct{}

func (bundleSource) Icon(_ context.Context, path string) (Info, error) {
	bundle, ok := enclosingBundle(path)
	if !ok {
		return Info{}, fmt.Errorf("%w: %s is not inside an application bundle", ErrNoIconFound, path)
	}

	iconPath, err := bundleIconPath(bundle)
	if err != nil {
		return Info{}, err
	}
	logging.Debugf("bundle %s uses icon %s", bundle, iconPath)

	data, err := os.ReadFile(iconPath)
	if err != nil {
		return Info{}, fmt.Errorf("read icon: %w", err)
	}
	element, err := pickICNSImage(data)
	if err != nil {
		return Info{}, err
	}
	img, err := png.Decode(bytes.NewReader(element))
	if err != nil {
		return Info{}, fmt.Errorf("decode icns element: %w", err)
	}
	return normalize(img)
}

// enclosingBundle walks up from path to the nearest directory named *.app.
func enclosingBundle(path string) (string, bool) {
	current := filepath.Clean(path)
	for {
		if strings.EqualFold(filepath.Ext(current), ".app") {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func bundleIconPath(bundle string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(bundle, "Contents", "Info.plist"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoIconFound, err)
	}

	var info bundleInfo
	if _, err := plist.Unmarshal(raw, &info); err != nil {
		return "", fmt.Errorf("parse Info.plist: %w", err)
	}
	name := strings.TrimSpace(info.IconFile)
	if name == "" {
		return "", fmt.Errorf("%w: %s declares no CFBundleIconFile", ErrNoIconFound, bundle)
	}
	if filepath.Ext(name) == "" {
		name += ".icns"
	}
	return filepath.Join(bundle, "Contents", "Resources", name), nil
}
