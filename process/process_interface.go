package process

import (
	"chatscan/process/memory_map"
)

// MemoryReader is the raw read primitive shared by live processes and in-memory blobs
type MemoryReader interface {
	// ReadMemory reads memory from the process at the specified address
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)
}

// RegionSource can enumerate its address space and read from it
type RegionSource interface {
	MemoryReader

	// Regions returns the current memory regions, recomputed on every call
	Regions() ([]memory_map.MemoryMapItem, error)
}

// Process is the interface that defines operations for interacting with a system process
type Process interface {
	RegionSource

	// Open opens a process with the given PID for memory operations
	Open(pid ProcessID) error

	// Close closes the process and releases resources. Closing twice is a no-op.
	Close() error

	// GetPID returns the process ID, zero when not open
	GetPID() ProcessID

	// IsRunning reports whether the opened process still exists
	IsRunning() bool
}
