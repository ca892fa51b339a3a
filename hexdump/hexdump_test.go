package hexdump

import (
	"strings"
	"testing"

	"chatscan/process"
	"chatscan/process/memory_map"
	"chatscan/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttacon/chalk"
)

func plain() HexDumpOptions {
	options := DefaultOptions()
	options.Colorize = false
	options.OffsetWidth = 8
	return options
}

func TestDumpLayout(t *testing.T) {
	options := plain()
	options.StartOffset = 0x1000

	out := Dump([]byte("hello\x00world"), options)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 1)

	assert.True(t, strings.HasPrefix(lines[0], "00001000  68 65 6c 6c 6f 00 77 6f | 72 6c 64"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], " | hello.world"), lines[0])
}

func TestDumpShortLineKeepsAsciiColumn(t *testing.T) {
	options := plain()
	data := []byte("0123456789abcdefXYZ")

	lines := strings.Split(strings.TrimSuffix(Dump(data, options), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], " | 0123"), strings.Index(lines[1], " | XYZ"))
}

func TestDumpMaxLines(t *testing.T) {
	options := plain()
	options.MaxLines = 1

	out := Dump(make([]byte, 40), options)
	assert.Contains(t, out, "... 24 more bytes\n")
}

func TestDumpHighlight(t *testing.T) {
	options := DefaultOptions()
	options.HighlightPattern = []byte("world")

	out := Dump([]byte("hello world"), options)
	assert.Contains(t, out, chalk.Yellow.Color("77"))
	assert.Contains(t, out, chalk.Yellow.Color("64"))
	assert.Contains(t, out, chalk.Green.Color("68"))
}

func TestHighlightMask(t *testing.T) {
	got := highlightMask([]byte("xABABx"), []byte("ABA"))
	assert.Equal(t, []bool{false, true, true, true, true, false}, got)
	assert.Equal(t, []bool{false, false}, highlightMask([]byte("ab"), nil))
}

func TestDumpPointerAnnotation(t *testing.T) {
	options := plain()
	options.MemoryMap = []memory_map.MemoryMapItem{{Address: 0x1000, Size: 0x100, Perms: "rw-p", Committed: true}}

	data := []byte{0x10, 0x10, 0, 0, 0, 0, 0, 0, 'h', 'i'}
	assert.Contains(t, Dump(data, options), " | 0x1010\n")

	data[1] = 0x20
	assert.NotContains(t, Dump(data, options), "0x2010")
}

func TestAround(t *testing.T) {
	m := process_blob.NewMemory(1)
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	m.AddRegion(0x1000, "rw-p", data)

	got, start := Around(m, 0x1004, 4, 16)
	assert.Equal(t, process.ProcessMemoryAddress(0x1000), start)
	assert.Equal(t, data[:24], got)

	got, start = Around(m, 0x1030, 4, 16)
	assert.Equal(t, process.ProcessMemoryAddress(0x1020), start)
	assert.Equal(t, data[0x20:], got)

	got, _ = Around(m, 0x9000, 4, 16)
	assert.Nil(t, got)
}
