package scan

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"chatscan/process"
)

// ParseAOB parses a byte pattern such as "00,ba,ad,??,f0" or "00 ba ad ? f0".
// "?" and "??" are wildcards.
func ParseAOB(aob string) (process.AOB, error) {
	parts := strings.FieldsFunc(aob, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) == 0 {
		return process.AOB{}, ErrEmptyPattern
	}

	pattern := make([]byte, 0, len(parts))
	mask := make([]byte, 0, len(parts))

	for _, part := range parts {
		if part == "??" || part == "?" {
			pattern = append(pattern, 0)
			mask = append(mask, 0)
			continue
		}

		val, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return process.AOB{}, fmt.Errorf("invalid hex byte: %s", part)
		}
		pattern = append(pattern, byte(val))
		mask = append(mask, 0xFF)
	}

	return process.NewAOB(pattern, mask)
}

// FormatAOB renders a pattern the way ParseAOB reads it
func FormatAOB(aob process.AOB) string {
	var sb strings.Builder
	for i, b := range aob.Pattern {
		if i > 0 {
			sb.WriteString(" ")
		}
		if i < len(aob.Mask) && aob.Mask[i] == 0 {
			sb.WriteString("??")
		} else {
			sb.WriteString(hex.EncodeToString([]byte{b}))
		}
	}
	return sb.String()
}
