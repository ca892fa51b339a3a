// Package process provides interfaces and types for reading the memory of another process
package process

import "errors"

var (
	// ErrProcessNotFound is returned when no running process matches the requested name.
	ErrProcessNotFound = errors.New("process not found")

	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	ErrPartialRead = errors.New("partial read")

	// ErrReadTooLarge is returned for reads above MaxReadSize.
	ErrReadTooLarge = errors.New("read size too large")
)

// MaxReadSize bounds a single read; larger regions must be read in pieces
const MaxReadSize ProcessMemorySize = 1 << 30

// TryRead reads size bytes at addr and returns nil on any failure.
//
// Reads against a live foreign process fail routinely (guard pages, regions
// unmapped between enumeration and read, the process paging), so callers that
// probe memory treat a failed read as "no data this attempt". TryRead never
// returns a short slice and never panics: sizes above MaxReadSize are
// refused, and a panic in the reader (a typed nil, for one) yields nil.
func TryRead(r MemoryReader, addr ProcessMemoryAddress, size ProcessMemorySize) (data []byte) {
	if r == nil || size == 0 || size > MaxReadSize {
		return nil
	}

	defer func() {
		if recover() != nil {
			data = nil
		}
	}()

	data, err := r.ReadMemory(addr, size)
	if err != nil || uint64(len(data)) != uint64(size) {
		return nil
	}
	return data
}
