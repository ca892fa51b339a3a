// Package scan searches the writable memory of a process for byte patterns.
package scan

import (
	"bytes"
	"errors"
	"fmt"

	"chatscan/process"
	"chatscan/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var ErrEmptyPattern = errors.New("empty pattern")

// Scanner holds configuration for the scan
type Scanner struct {
	Filter        func(memory_map.MemoryMapItem) bool
	MaxRegionSize uint

	log *logger.Logger
}

// Option is a function that configures a Scanner
type Option func(*Scanner)

// WithRegionFilter replaces the default committed, read/write region filter
func WithRegionFilter(filter func(memory_map.MemoryMapItem) bool) Option {
	return func(s *Scanner) {
		s.Filter = filter
	}
}

// WithMaxRegionSize skips regions larger than size bytes. Zero means no limit.
func WithMaxRegionSize(size uint) Option {
	return func(s *Scanner) {
		s.MaxRegionSize = size
	}
}

// New creates a Scanner
func New(options ...Option) *Scanner {
	s := &Scanner{
		Filter: memory_map.IsScanCandidate,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "scan")),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Scan returns the address of every occurrence of pattern in the scanned
// regions, overlapping occurrences included, in region order.
//
// Each region is read in one piece. A region that cannot be read is skipped;
// only an empty pattern or a failed region enumeration is an error.
func (s *Scanner) Scan(src process.RegionSource, pattern []byte) ([]process.ProcessMemoryAddress, error) {
	return s.ScanAOB(src, process.AOB{Pattern: pattern})
}

// ScanAOB is Scan with an optional wildcard mask
func (s *Scanner) ScanAOB(src process.RegionSource, aob process.AOB) ([]process.ProcessMemoryAddress, error) {
	if len(aob.Pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	if !aob.IsValid() {
		return nil, fmt.Errorf("mask length (%d) doesn't match pattern length (%d)",
			len(aob.Mask), len(aob.Pattern))
	}

	regions, err := src.Regions()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory map: %w", err)
	}

	s.log.Debugln("Starting memory scan for pattern of length", len(aob.Pattern))

	var results []process.ProcessMemoryAddress
	scanned, skipped := 0, 0

	for _, region := range regions {
		if s.Filter != nil && !s.Filter(region) {
			continue
		}
		if s.MaxRegionSize > 0 && region.Size > s.MaxRegionSize {
			skipped++
			continue
		}

		data := process.TryRead(src, process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
		if data == nil {
			s.log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address))
			skipped++
			continue
		}
		scanned++

		var matches []uint
		if aob.IsExact() {
			matches = FindAll(data, aob.Pattern)
		} else {
			matches = findPatternMatches(data, aob.Pattern, aob.Mask)
		}

		// Convert relative offsets to absolute addresses
		for _, offset := range matches {
			results = append(results, process.ProcessMemoryAddress(region.Address+uint64(offset)))
		}
	}

	s.log.Debugln("Scan complete:", scanned, "regions scanned,", skipped, "skipped,", len(results), "matches")
	return results, nil
}

// FindAll returns the offset of every occurrence of pattern in data. After a
// match at k the search resumes at k+1, so overlapping matches are reported.
func FindAll(data, pattern []byte) []uint {
	if len(pattern) == 0 {
		return nil
	}

	var matches []uint
	for pos := 0; pos+len(pattern) <= len(data); {
		i := bytes.Index(data[pos:], pattern)
		if i < 0 {
			break
		}
		matches = append(matches, uint(pos+i))
		pos += i + 1
	}
	return matches
}

// findPatternMatches finds all occurrences of the masked pattern in the data.
// A zero mask byte is a wildcard.
func findPatternMatches(data, pattern, mask []byte) []uint {
	var matches []uint

	for i := 0; i+len(pattern) <= len(data); i++ {
		matched := true

		for j := 0; j < len(pattern); j++ {
			if mask[j] == 0 {
				continue
			}
			if data[i+j]&mask[j] != pattern[j]&mask[j] {
				matched = false
				break
			}
		}

		if matched {
			matches = append(matches, uint(i))
		}
	}

	return matches
}
