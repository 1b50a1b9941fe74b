package icon

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"testing"
)

const testInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>Editor</string>
	<key>CFBundleIconFile</key>
	<string>%s</string>
</dict>
</plist>
`

func makeBundle(t *testing.T, iconFile string, icns []byte) string {
	t.Helper()
	bundle := filepath.Join(t.TempDir(), "Editor.app")
	plist := fmt.Sprintf(testInfoPlist, iconFile)
	writeFile(t, filepath.Join(bundle, "Contents", "Info.plist"), []byte(plist))
	writeFile(t, filepath.Join(bundle, "Contents", "MacOS", "editor"), []byte("#!/bin/sh\n"))
	if icns != nil {
		writeFile(t, filepath.Join(bundle, "Contents", "Resources", "AppIcon.icns"), icns)
	}
	return bundle
}

func TestBundleSourceReadsICNS(t *testing.T) {
	icon := pngBytes(t, solidImage(64, 64, color.NRGBA{R: 0xff, A: 0xff}))
	bundle := makeBundle(t, "AppIcon", buildICNS(icnsElement{"icp6", icon}))

	for _, path := range []string{bundle, filepath.Join(bundle, "Contents", "MacOS", "editor")} {
		info, err := bundleSource{}.Icon(context.Background(), path)
		if err != nil {
			t.Fatalf("Icon(%s): %v", path, err)
		}
		decodeInfo(t, info)
	}
}

func TestBundleSourceMisses(t *testing.T) {
	cases := map[string]string{
		"outside bundle": filepath.Join(t.TempDir(), "editor"),
		"no icon key":    makeBundle(t, "", nil),
		"missing icns":   makeBundle(t, "Other.icns", nil),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := (bundleSource{}).Icon(context.Background(), path); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}

	if _, err := (bundleSource{}).Icon(context.Background(), "/tmp/editor"); !errors.Is(err, ErrNoIconFound) {
		t.Fatalf("expected ErrNoIconFound outside a bundle, got %v", err)
	}
}

func TestBundleIconPathAppendsExtension(t *testing.T) {
	bundle := makeBundle(t, "AppIcon", nil)
	got, err := bundleIconPath(bundle)
	if err != nil {
		t.Fatalf("bundleIconPath: %v", err)
	}
	if want := filepath.Join(bundle, "Contents", "Resources", "AppIcon.icns"); got != want {
		t.Fatalf("bundleIconPath = %s, want %s", got, want)
	}
}
