// Package textenc maps encoding names to fixed-width character profiles used
// to build scan patterns and to decode raw memory.
package textenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Profile is a named encoding with a fixed terminator width
type Profile struct {
	Name  string
	Width int

	enc encoding.Encoding // decoder side
	pat encoding.Encoding // encoder side, never emits a BOM
}

var (
	UTF8    = Profile{Name: "utf-8", Width: 1, enc: unicode.UTF8, pat: unicode.UTF8}
	UTF16LE = Profile{Name: "utf-16-le", Width: 2, enc: utf16le, pat: utf16le}

	// UTF16 honours a byte order mark when one is present and otherwise
	// assumes the native little-endian order of the targets we read.
	UTF16 = Profile{Name: "utf-16", Width: 2, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), pat: utf16le}
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Defaults is the ordered candidate list tried during resolution
var Defaults = []string{UTF8.Name, UTF16LE.Name, UTF16.Name}

// Normalize lower-cases a name and treats '_' as '-'
func Normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
}

// CharWidth returns the terminator width implied by an encoding name
func CharWidth(name string) int {
	n := Normalize(name)
	switch {
	case n == "":
		return 1
	case strings.HasPrefix(n, "utf-32") || strings.Contains(n, "ucs-4"):
		return 4
	case strings.HasPrefix(n, "utf-16") || strings.Contains(n, "ucs-2"):
		return 2
	}
	return 1
}

// Lookup resolves an encoding name. The built-in profiles are matched first;
// any other IANA name known to x/text (euc-kr, gbk, shift_jis, ...) is
// accepted with a width derived from its name. ok is false for unknown names.
func Lookup(name string) (Profile, bool) {
	n := Normalize(name)
	switch n {
	case "utf-8", "utf8":
		return UTF8, true
	case "utf-16-le", "utf-16le", "utf16le":
		return UTF16LE, true
	case "utf-16", "utf16":
		return UTF16, true
	case "utf-32-le", "utf-32le":
		e := utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
		return Profile{Name: n, Width: 4, enc: e, pat: e}, true
	}

	e, err := ianaindex.IANA.Encoding(name)
	if err != nil || e == nil {
		return Profile{}, false
	}
	return Profile{Name: n, Width: CharWidth(n), enc: e, pat: e}, true
}

// MustLookup is Lookup for names known to be valid
func MustLookup(name string) Profile {
	p, ok := Lookup(name)
	if !ok {
		panic("textenc: unknown encoding " + name)
	}
	return p
}

// Encode returns the bytes text occupies in memory under p, without
// terminator or byte order mark.
func (p Profile) Encode(text string) ([]byte, error) {
	if p.pat == nil {
		return []byte(text), nil
	}
	return p.pat.NewEncoder().Bytes([]byte(text))
}

// Decode converts raw bytes to text. Invalid sequences become U+FFFD; decoding never fails.
func (p Profile) Decode(b []byte) string {
	if p.enc == nil {
		return lossyUTF8(b)
	}
	out, err := p.enc.NewDecoder().Bytes(b)
	if err != nil {
		return lossyUTF8(b)
	}
	return lossyUTF8(out)
}

func (p Profile) String() string {
	return p.Name
}

// Terminator returns the zero character of the profile's width
func (p Profile) Terminator() []byte {
	return make([]byte, p.Width)
}

func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}
