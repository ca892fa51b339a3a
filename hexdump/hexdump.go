// Package hexdump renders memory around scan hits for diagnostics.
package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"chatscan/process"
	"chatscan/process/memory_map"

	"github.com/ttacon/chalk"
)

// HexDumpOptions defines options for customizing the hexdump output
type HexDumpOptions struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// StartOffset is the address of the first byte
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// Colorize enables ANSI colors
	Colorize bool

	OffsetColor    chalk.Color
	HexColor       chalk.Color
	ZeroColor      chalk.Color
	HighlightColor chalk.Color

	// HighlightPattern marks every occurrence of the pattern
	HighlightPattern []byte

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// MemoryMap, when set, annotates lines whose first 8 bytes look like a
	// pointer into a mapped region
	MemoryMap []memory_map.MemoryMapItem
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() HexDumpOptions {
	return HexDumpOptions{
		BytesPerLine:   16,
		OffsetWidth:    12,
		Colorize:       true,
		OffsetColor:    chalk.Cyan,
		HexColor:       chalk.Green,
		ZeroColor:      chalk.Blue,
		HighlightColor: chalk.Yellow,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options HexDumpOptions) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options HexDumpOptions) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	marked := highlightMask(data, options.HighlightPattern)

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := min(offset+options.BytesPerLine, len(data))
		formatLine(writer, data[offset:end], marked[offset:end], uint64(offset)+options.StartOffset, options)
		lineCount++
	}
}

// highlightMask flags every byte covered by an occurrence of pattern
func highlightMask(data, pattern []byte) []bool {
	marked := make([]bool, len(data))
	if len(pattern) == 0 {
		return marked
	}
	for i := 0; i+len(pattern) <= len(data); i++ {
		if bytes.Equal(data[i:i+len(pattern)], pattern) {
			for j := i; j < i+len(pattern); j++ {
				marked[j] = true
			}
		}
	}
	return marked
}

func paint(options HexDumpOptions, color chalk.Color, s string) string {
	if !options.Colorize {
		return s
	}
	return color.Color(s)
}

func formatLine(writer io.Writer, data []byte, marked []bool, offset uint64, options HexDumpOptions) {
	fmt.Fprint(writer, paint(options, options.OffsetColor, fmt.Sprintf("%0*x", options.OffsetWidth, offset)), "  ")

	half := options.BytesPerLine / 2
	for i := 0; i < options.BytesPerLine; i++ {
		if i > 0 {
			fmt.Fprint(writer, " ")
			if i == half && options.BytesPerLine >= 8 {
				fmt.Fprint(writer, "| ")
			}
		}
		if i >= len(data) {
			fmt.Fprint(writer, "  ")
			continue
		}

		hex := fmt.Sprintf("%02x", data[i])
		switch {
		case marked[i]:
			hex = paint(options, options.HighlightColor, hex)
		case data[i] == 0:
			hex = paint(options, options.ZeroColor, hex)
		default:
			hex = paint(options, options.HexColor, hex)
		}
		fmt.Fprint(writer, hex)
	}

	fmt.Fprint(writer, " | ")
	var ascii strings.Builder
	for i, b := range data {
		c := "."
		if b >= 0x20 && b < 0x7f {
			c = string(rune(b))
		}
		if marked[i] {
			c = paint(options, options.HighlightColor, c)
		}
		ascii.WriteString(c)
	}
	fmt.Fprint(writer, ascii.String())

	if ptr, ok := pointerAt(data, options.MemoryMap); ok {
		fmt.Fprint(writer, " | ", paint(options, options.HighlightColor, fmt.Sprintf("0x%x", ptr)))
	}

	fmt.Fprintln(writer)
}

// pointerAt reports the little-endian value of the first 8 bytes when it
// falls inside a mapped region
func pointerAt(data []byte, mm []memory_map.MemoryMapItem) (uint64, bool) {
	if len(mm) == 0 || len(data) < 8 {
		return 0, false
	}
	var ptr uint64
	for i := 7; i >= 0; i-- {
		ptr = ptr<<8 | uint64(data[i])
	}
	return ptr, memory_map.FindRegion(ptr, mm) != nil
}

// Around reads up to radius bytes on each side of a size-byte hit at addr,
// clamped to the hit's region, and returns the data with its start address.
// Reads go through process.TryRead and an unreadable hit yields nil.
func Around(src process.RegionSource, addr process.ProcessMemoryAddress, size, radius uint) ([]byte, process.ProcessMemoryAddress) {
	regions, err := src.Regions()
	if err != nil {
		return nil, addr
	}
	memory_map.Sort(regions)
	region := memory_map.FindRegion(uint64(addr), regions)
	if region == nil {
		return nil, addr
	}

	start := max(region.Address, uint64(addr)-min(uint64(radius), uint64(addr)))
	end := min(region.End(), uint64(addr)+uint64(size)+uint64(radius))

	data := process.TryRead(src, process.ProcessMemoryAddress(start), process.ProcessMemorySize(end-start))
	return data, process.ProcessMemoryAddress(start)
}
