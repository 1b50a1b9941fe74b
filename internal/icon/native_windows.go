//go:build windows
// +build windows

package icon

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")
	user32  = windows.NewLazySystemDLL("user32.dll")
	gdi32   = windows.NewLazySystemDLL("gdi32.dll")

	procExtractIconExW         = shell32.NewProc("ExtractIconExW")
	procGetIconInfo            = user32.NewProc("GetIconInfo")
	procDestroyIcon            = user32.NewProc("DestroyIcon")
	procCreateCompatibleDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = gdi32.NewProc("SelectObject")
	procGetDIBits              = gdi32.NewProc("GetDIBits")
	procDeleteDC               = gdi32.NewProc("DeleteDC")
	procDeleteObject           = gdi32.NewProc("DeleteObject")
)

// iconInfo mirrors the Win32 ICONINFO structure.
type iconInfo struct {
	IsIcon   int32
	XHotspot uint32
	YHotspot uint32
	Mask     uintptr
	Color    uintptr
}

type winAPI struct{}

func (winAPI) ExtractIconEx(path string, index int32) (large, small handle, count uint32) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, 0, 0
	}
	var l, s uintptr
	r, _, _ := procExtractIconExW.Call(
		uintptr(unsafe.Pointer(p)),
		uintptr(index),
		uintptr(unsafe.Pointer(&l)),
		uintptr(unsafe.Pointer(&s)),
		1,
	)
	// UINT_MAX signals a missing file when icons are requested.
	if uint32(r) == ^uint32(0) {
		r = 0
	}
	return handle(l), handle(s), uint32(r)
}

func (winAPI) IconInfo(icon handle) (color, mask handle, ok bool) {
	var ii iconInfo
	r, _, _ := procGetIconInfo.Call(uintptr(icon), uintptr(unsafe.Pointer(&ii)))
	if r == 0 {
		return 0, 0, false
	}
	return handle(ii.Color), handle(ii.Mask), true
}

func (winAPI) CreateCompatibleDC() handle {
	r, _, _ := procCreateCompatibleDC.Call(0)
	return handle(r)
}

func (winAPI) CreateCompatibleBitmap(dc handle, width, height int32) handle {
	r, _, _ := procCreateCompatibleBitmap.Call(uintptr(dc), uintptr(width), uintptr(height))
	return handle(r)
}

func (winAPI) SelectObject(dc, object handle) handle {
	r, _, _ := procSelectObject.Call(uintptr(dc), uintptr(object))
	return handle(r)
}

func (winAPI) DIBits(dc, bitmap handle, lines uint32, buf []byte, info *bitmapInfo) int32 {
	if len(buf) == 0 {
		return 0
	}
	r, _, _ := procGetDIBits.Call(
		uintptr(dc),
		uintptr(bitmap),
		0,
		uintptr(lines),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(info)),
		dibRGBColors,
	)
	return int32(r)
}

func (winAPI) DeleteDC(dc handle) {
	procDeleteDC.Call(uintptr(dc))
}

func (winAPI) DeleteObject(object handle) {
	procDeleteObject.Call(uintptr(object))
}

func (winAPI) DestroyIcon(icon handle) {
	procDestroyIcon.Call(uintptr(icon))
}

// registryDefaultIcon follows HKCR\<ext> to its ProgID and returns the
// expanded DefaultIcon value registered for it.
func registryDefaultIcon(ext string) (string, bool) {
	if progID, ok := readClassesValue(ext); ok {
		if value, ok := readClassesValue(progID + `\DefaultIcon`); ok {
			return value, true
		}
	}
	// Some extensions register DefaultIcon directly.
	return readClassesValue(ext + `\DefaultIcon`)
}

func readClassesValue(path string) (string, bool) {
	key, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer key.Close()

	value, valType, err := key.GetStringValue("")
	if err != nil {
		return "", false
	}
	if valType == registry.EXPAND_SZ {
		if expanded, err := registry.ExpandString(value); err == nil {
			value = expanded
		}
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
