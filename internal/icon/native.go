package icon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/example/iconbridge/internal/logging"
)

// handle is an opaque native resource: an icon, a device context or a bitmap.
type handle uintptr

const (
	biRGB        = 0
	dibRGBColors = 0
)

// bitmapInfoHeader mirrors the Win32 BITMAPINFOHEADER layout.
type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// bitmapInfo mirrors BITMAPINFO with a single RGBQUAD colour entry.
type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

// nativeAPI is the slice of shell32, user32 and gdi32 used to turn a file
// into pixels. Every method follows the Win32 convention of returning a zero
// handle on failure.
type nativeAPI interface {
	ExtractIconEx(path string, index int32) (large, small handle, count uint32)
	IconInfo(icon handle) (color, mask handle, ok bool)
	CreateCompatibleDC() handle
	CreateCompatibleBitmap(dc handle, width, height int32) handle
	SelectObject(dc, object handle) handle
	DIBits(dc, bitmap handle, lines uint32, buf []byte, info *bitmapInfo) int32
	DeleteDC(dc handle)
	DeleteObject(object handle)
	DestroyIcon(icon handle)
}

// withIcon extracts one icon from path and hands the preferred handle to fn.
// Every handle returned by the extraction is destroyed before withIcon returns.
func withIcon(api nativeAPI, path string, index int32, fn func(icon handle) error) error {
	large, small, count := api.ExtractIconEx(path, index)
	defer func() {
		if large != 0 {
			api.DestroyIcon(large)
		}
		if small != 0 {
			api.DestroyIcon(small)
		}
	}()

	if count == 0 {
		return fmt.Errorf("%w in %s", ErrNoIconFound, path)
	}

	icon := large
	if icon == 0 {
		icon = small
	}
	if icon == 0 {
		return fmt.Errorf("%w in %s", ErrNoIconFound, path)
	}
	return fn(icon)
}

// rasterize draws icon into a 32x32 top-down BGRA buffer. All GDI objects it
// touches, including the bitmaps owned by the icon info, are released before
// it returns.
func rasterize(api nativeAPI, icon handle) (Info, error) {
	color, mask, ok := api.IconInfo(icon)
	if !ok {
		return Info{}, ErrIconInfoUnavailable
	}
	defer func() {
		if color != 0 {
			api.DeleteObject(color)
		}
		if mask != 0 {
			api.DeleteObject(mask)
		}
	}()

	dc := api.CreateCompatibleDC()
	if dc == 0 {
		return Info{}, ErrSurfaceCreationFailed
	}

	var bitmap, previous handle
	defer func() {
		if bitmap != 0 {
			api.SelectObject(dc, previous)
		}
		api.DeleteDC(dc)
		if bitmap != 0 {
			api.DeleteObject(bitmap)
		}
	}()

	info := bitmapInfo{
		Header: bitmapInfoHeader{
			Width:       Size,
			Height:      -Size,
			Planes:      1,
			BitCount:    32,
			Compression: biRGB,
		},
	}
	info.Header.Size = uint32(unsafe.Sizeof(info.Header))

	bitmap = api.CreateCompatibleBitmap(dc, Size, Size)
	if bitmap == 0 {
		return Info{}, ErrBitmapCreationFailed
	}
	previous = api.SelectObject(dc, bitmap)

	pixels := make([]byte, Size*Size*4)
	if lines := api.DIBits(dc, color, Size, pixels, &info); lines < Size {
		logging.Debugf("partial icon copy: %d of %d scan lines", lines, Size)
	}

	return Info{
		Width:  Size,
		Height: Size,
		Data:   pixels,
		Format: FormatRGBA,
	}, nil
}

// iconFromFile extracts and rasterizes the icon at index in path.
func iconFromFile(api nativeAPI, path string, index int32) (Info, error) {
	var info Info
	err := withIcon(api, path, index, func(icon handle) error {
		var err error
		info, err = rasterize(api, icon)
		return err
	})
	return info, err
}

// nativeSource extracts icons through the Win32 shell. Files without an
// embedded icon fall back to the DefaultIcon registered for their extension.
type nativeSource struct {
	api         nativeAPI
	defaultIcon func(ext string) (string, bool)
}

func (s nativeSource) Icon(_ context.Context, path string) (Info, error) {
	info, err := iconFromFile(s.api, path, 0)
	if err == nil || !errors.Is(err, ErrNoIconFound) || s.defaultIcon == nil {
		return info, err
	}

	ext := filepath.Ext(path)
	if ext == "" {
		return Info{}, err
	}
	raw, ok := s.defaultIcon(ext)
	if !ok {
		return Info{}, err
	}
	loc, ok := parseIconLocation(raw)
	if !ok {
		logging.Debugf("ignoring malformed DefaultIcon %q for %s", raw, ext)
		return Info{}, err
	}
	logging.Debugf("using DefaultIcon %s,%d for %s", loc.File, loc.Index, ext)
	return iconFromFile(s.api, loc.File, loc.Index)
}
