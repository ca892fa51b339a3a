package memory_map

import (
	"fmt"
	"sort"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address   uint64 // The starting address of the memory region
	Size      uint   // The size of the memory region in bytes
	Perms     string // Permissions (e.g., "rw-p" for read, write, private)
	Committed bool   // Backed by real memory rather than merely reserved
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	state := "reserved"
	if mmItem.Committed {
		state = "committed"
	}
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s, State: %s", mmItem.Address, mmItem.Size, mmItem.Perms, state)
}

// End returns the first address past the region
func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

func (mmItem MemoryMapItem) IsExecutable() bool {
	return len(mmItem.Perms) > 2 && mmItem.Perms[2] == 'x'
}

// IsScanCandidate reports whether a region may hold a chat buffer:
// committed, readable and writable.
func IsScanCandidate(item MemoryMapItem) bool {
	return item.Committed && item.Size > 0 && item.IsReadable() && item.IsWritable()
}

// QueryFunc describes the region at or after addr. ok is false when the OS
// reports no further region.
type QueryFunc func(addr uint64) (item MemoryMapItem, ok bool)

// Walk enumerates an address space from zero upward, one region per step.
//
// The walk stops when query reports no region, when a region has zero size,
// or when the next base address is not strictly greater than the current one.
// The last condition covers the wrap to zero at the top of the address space.
func Walk(query QueryFunc) []MemoryMapItem {
	var items []MemoryMapItem
	var addr uint64

	for {
		item, ok := query(addr)
		if !ok || item.Size == 0 {
			break
		}

		items = append(items, item)

		next := item.End()
		if next <= addr || next <= item.Address {
			break
		}
		addr = next
	}

	return items
}

// Sort orders regions by start address
func Sort(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}

// FindRegion returns the region containing addr. memoryMap must be sorted.
func FindRegion(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}
