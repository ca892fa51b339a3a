//go:build windows

package window

import (
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

// windowTitle returns the title of hwnd, empty when it has none
func windowTitle(hwnd windows.HWND) string {
	var buf [256]uint16
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// EnumWindows callbacks are a limited resource, so one trampoline is shared
// and enumMu guards the state it reads.
var (
	enumMu     sync.Mutex
	enumPrefix string
	enumFound  bool

	enumCallback = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if !windows.IsWindowVisible(hwnd) {
			return 1
		}
		title := windowTitle(hwnd)
		if title == "" {
			return 1
		}
		if strings.HasPrefix(title, enumPrefix) {
			enumFound = true
			return 0
		}
		return 1
	})
)

// TitlePrefix is present while a visible top-level window's title starts with Prefix
type TitlePrefix struct {
	Prefix string
}

func (t *TitlePrefix) IsPresent() bool {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumPrefix = t.Prefix
	enumFound = false

	// EnumWindows reports an error when the callback stops it early
	_ = windows.EnumWindows(enumCallback, nil)
	return enumFound
}

// ForTitle returns the title-based presence check
func ForTitle(prefix string) Presence {
	return &TitlePrefix{Prefix: prefix}
}
