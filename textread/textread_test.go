package textread

import (
	"testing"

	"chatscan/process"
	"chatscan/process_blob"
	"chatscan/textenc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = 0x40000

func memoryWith(t *testing.T, data []byte) *process_blob.Memory {
	t.Helper()
	m := process_blob.NewMemory(1)
	m.AddRegion(base, "rw-p", data)
	return m
}

func encode(t *testing.T, encoding, text string) []byte {
	t.Helper()
	b, err := textenc.MustLookup(encoding).Encode(text)
	require.NoError(t, err)
	return b
}

func TestReadTextStopsAtTerminator(t *testing.T) {
	m := memoryWith(t, []byte("hello\x00garbage"))

	text, ok := ReadText(m, base, 20, "utf-8")
	require.True(t, ok)
	assert.Equal(t, "hello", text)
}

func TestReadTextUTF16LE(t *testing.T) {
	data := append(encode(t, "utf-16-le", "안녕하세요"), 0, 0, 'x', 0)
	m := memoryWith(t, data)

	text, ok := ReadText(m, base, 200, "utf-16-le")
	require.True(t, ok)
	assert.Equal(t, "안녕하세요", text)
}

func TestReadTextRoundTripsEveryProfile(t *testing.T) {
	const text = "gg 聊天记录 안녕"
	for _, name := range textenc.Defaults {
		p := textenc.MustLookup(name)
		data := append(encode(t, name, text), p.Terminator()...)
		m := memoryWith(t, data)

		got, ok := ReadText(m, base, len(data), name)
		require.True(t, ok, name)
		assert.Equal(t, text, got, name)
	}
}

func TestReadTextUnknownEncodingFallsBackToUTF8(t *testing.T) {
	m := memoryWith(t, append([]byte("聊天记录"), 0))

	text, ok := ReadText(m, base, 100, "bogus-1234")
	require.True(t, ok)
	assert.Equal(t, "聊天记录", text)
}

func TestReadTextInvalidBytesAreReplaced(t *testing.T) {
	m := memoryWith(t, []byte{'o', 'k', 0xFF, '!', 0})

	text, ok := ReadText(m, base, 100, "utf-8")
	require.True(t, ok)
	assert.Equal(t, "ok�!", text)
}

func TestReadTextRespectsMaxBytes(t *testing.T) {
	m := memoryWith(t, []byte("abcdefghij"))

	text, ok := ReadText(m, base, 4, "utf-8")
	require.True(t, ok)
	assert.Equal(t, "abcd", text)

	// 5 bytes of UTF-16 is two whole characters; the half character is never read.
	m = memoryWith(t, encode(t, "utf-16-le", "abcdef"))
	text, ok = ReadText(m, base, 5, "utf-16-le")
	require.True(t, ok)
	assert.Equal(t, "ab", text)

	_, ok = ReadText(m, base, 1, "utf-16-le")
	assert.False(t, ok)
	_, ok = ReadText(m, base, 0, "utf-8")
	assert.False(t, ok)
}

func TestReadTextStopsAtRegionEnd(t *testing.T) {
	m := memoryWith(t, []byte("no terminator"))

	text, ok := ReadText(m, base, 100, "utf-8")
	require.True(t, ok)
	assert.Equal(t, "no terminator", text)
}

func TestReadTextUnreadableAddress(t *testing.T) {
	m := memoryWith(t, []byte("data"))

	text, ok := ReadText(m, 0x10, 100, "utf-8")
	assert.False(t, ok)
	assert.Empty(t, text)

	m.FailReads(base)
	_, ok = ReadText(m, base, 100, "utf-8")
	assert.False(t, ok)
}

func TestReadTextEmptyString(t *testing.T) {
	m := memoryWith(t, []byte{0, 0, 'x'})

	text, ok := ReadText(m, base, 10, "utf-16-le")
	assert.True(t, ok, "a terminator is a successful read")
	assert.Equal(t, "", text)
}

func TestReadTextUTF16TerminatorNeedsFullWidth(t *testing.T) {
	// "A" followed by U+0100 ('Ā' = 00 01) contains a zero byte that is not a terminator.
	m := memoryWith(t, []byte{'A', 0, 0x00, 0x01, 0, 0})

	text, ok := ReadText(m, base, 100, "utf-16-le")
	require.True(t, ok)
	assert.Equal(t, "AĀ", text)
	assert.Equal(t, 3, m.Reads())
}

func TestReadProfileZeroWidth(t *testing.T) {
	m := memoryWith(t, []byte("hi\x00"))
	text, ok := ReadProfile(m, process.ProcessMemoryAddress(base), 10, textenc.Profile{})
	require.True(t, ok)
	assert.Equal(t, "hi", text)
}
