package process_blob

import (
	"fmt"
	"sync"

	"chatscan/process"
	"chatscan/process/memory_map"
)

// Memory implements process.Process over in-memory regions. It stands in for a
// live process in tests and serves scans over a loaded dump.
type Memory struct {
	PID  process.ProcessID
	Name string

	mu      sync.Mutex
	regions []memory_map.MemoryMapItem
	blobs   map[uint64][]byte // Address -> Data
	failing map[uint64]bool
	open    bool
	exited  bool
	reads   int
	closes  int
}

var _ process.Process = (*Memory)(nil)

// NewMemory creates an empty, open Memory
func NewMemory(pid process.ProcessID) *Memory {
	return &Memory{
		PID:     pid,
		blobs:   make(map[uint64][]byte),
		failing: make(map[uint64]bool),
		open:    true,
	}
}

// AddRegion maps data at address with the given permissions
func (m *Memory) AddRegion(address uint64, perms string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regions = append(m.regions, memory_map.MemoryMapItem{
		Address:   address,
		Size:      uint(len(data)),
		Perms:     perms,
		Committed: true,
	})
	memory_map.Sort(m.regions)
	m.blobs[address] = data
}

// AddReserved maps an uncommitted range that has no backing data
func (m *Memory) AddReserved(address uint64, size uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regions = append(m.regions, memory_map.MemoryMapItem{Address: address, Size: size, Perms: "rw-p"})
	memory_map.Sort(m.regions)
}

// FailReads makes every read touching the region at address fail
func (m *Memory) FailReads(address uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[address] = true
}

// Write copies data into mapped memory at addr
func (m *Memory) Write(addr process.ProcessMemoryAddress, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	region := memory_map.FindRegion(uint64(addr), m.regions)
	if region == nil {
		return process.ErrAddressNotMapped
	}
	blob := m.blobs[region.Address]
	offset := uint64(addr) - region.Address
	if offset+uint64(len(data)) > uint64(len(blob)) {
		return fmt.Errorf("write of %d bytes at %s exceeds region", len(data), addr.ToString())
	}
	copy(blob[offset:], data)
	return nil
}

// Exit marks the process as gone
func (m *Memory) Exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exited = true
}

// Reads returns the number of ReadMemory calls served so far
func (m *Memory) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Closes returns how often Close released an open process
func (m *Memory) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

func (m *Memory) Open(pid process.ProcessID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PID = pid
	m.open = true
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		m.open = false
		m.closes++
	}
	return nil
}

func (m *Memory) GetPID() process.ProcessID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return 0
	}
	return m.PID
}

func (m *Memory) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open && !m.exited
}

func (m *Memory) Regions() ([]memory_map.MemoryMapItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return nil, process.ErrProcessNotOpen
	}

	result := make([]memory_map.MemoryMapItem, len(m.regions))
	copy(result, m.regions)
	return result, nil
}

func (m *Memory) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if !m.open {
		return nil, process.ErrProcessNotOpen
	}

	region := memory_map.FindRegion(uint64(addr), m.regions)
	if region == nil {
		return nil, process.ErrAddressNotMapped
	}
	if m.failing[region.Address] {
		return nil, fmt.Errorf("read at %s: access denied", addr.ToString())
	}

	data, ok := m.blobs[region.Address]
	if !ok {
		return nil, fmt.Errorf("no data for region 0x%x", region.Address)
	}

	offset := uint64(addr) - region.Address
	end := offset + uint64(size)
	if end < offset || end > uint64(len(data)) {
		result := make([]byte, uint64(len(data))-offset)
		copy(result, data[offset:])
		return result, fmt.Errorf("%w: read of %d bytes crosses region end", process.ErrPartialRead, size)
	}

	result := make([]byte, size)
	copy(result, data[offset:end])
	return result, nil
}
