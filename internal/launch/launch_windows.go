//go:build windows
// +build windows

package launch

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const swShow = 5

var (
	modShell32        = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteW = modShell32.NewProc("ShellExecuteW")
)

func open(path string) error {
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("failed to open software: %w", err)
	}
	ret, _, _ := procShellExecuteW.Call(
		0,
		0,
		uintptr(unsafe.Pointer(file)),
		0,
		0,
		swShow,
	)
	return checkStatus(int(ret))
}
