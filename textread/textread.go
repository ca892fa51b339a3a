// Package textread reads bounded, zero-terminated strings out of process memory.
package textread

import (
	"bytes"

	"chatscan/process"
	"chatscan/textenc"
)

// ReadText reads a terminator-delimited string of at most maxBytes bytes at addr.
//
// Memory is read one character at a time, the character width coming from
// the encoding (1, 2 or 4 bytes). Reading stops at an all-zero character, at
// the first failed or short read, or before a character that would exceed
// maxBytes. An unknown encoding is read as UTF-8; bytes that are invalid in
// the encoding are replaced, never reported.
//
// ok is false only when not a single character could be read.
func ReadText(r process.MemoryReader, addr process.ProcessMemoryAddress, maxBytes int, encoding string) (string, bool) {
	profile, known := textenc.Lookup(encoding)
	if !known {
		profile = textenc.UTF8
	}
	return ReadProfile(r, addr, maxBytes, profile)
}

// ReadProfile is ReadText with an already resolved profile
func ReadProfile(r process.MemoryReader, addr process.ProcessMemoryAddress, maxBytes int, profile textenc.Profile) (string, bool) {
	width := profile.Width
	if width < 1 {
		width = 1
	}
	if maxBytes < width {
		return "", false
	}

	terminator := make([]byte, width)
	steps := maxBytes / width

	var buf bytes.Buffer
	readAny := false

	for step := 0; step < steps; step++ {
		chunk := process.TryRead(r, addr+process.ProcessMemoryAddress(step*width), process.ProcessMemorySize(width))
		if chunk == nil {
			break
		}
		readAny = true

		if bytes.Equal(chunk, terminator) {
			break
		}
		buf.Write(chunk)
	}

	if !readAny {
		return "", false
	}
	return profile.Decode(buf.Bytes()), true
}
