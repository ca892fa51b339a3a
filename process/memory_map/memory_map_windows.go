//go:build windows

package memory_map

import (
	"golang.org/x/sys/windows"
)

// FromBasicInformation converts a VirtualQueryEx result into a MemoryMapItem
func FromBasicInformation(mbi *windows.MemoryBasicInformation) MemoryMapItem {
	return MemoryMapItem{
		Address:   uint64(mbi.BaseAddress),
		Size:      uint(mbi.RegionSize),
		Perms:     ProtectToPerms(mbi.Protect),
		Committed: mbi.State == windows.MEM_COMMIT,
	}
}

// ProtectToPerms renders PAGE_* protection flags in the /proc/maps style.
// Guarded and no-access pages are reported as "---p".
func ProtectToPerms(protect uint32) string {
	if protect&(windows.PAGE_GUARD|windows.PAGE_NOACCESS) != 0 {
		return "---p"
	}

	perms := []byte("---p")
	switch protect &^ (windows.PAGE_NOCACHE | windows.PAGE_WRITECOMBINE) {
	case windows.PAGE_READONLY:
		perms[0] = 'r'
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY:
		perms[0], perms[1] = 'r', 'w'
	case windows.PAGE_EXECUTE:
		perms[2] = 'x'
	case windows.PAGE_EXECUTE_READ:
		perms[0], perms[2] = 'r', 'x'
	case windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		perms[0], perms[1], perms[2] = 'r', 'w', 'x'
	}
	return string(perms)
}
