package monitor

import (
	"strings"
)

// Filter drops empty texts, system lines and recently seen texts
type Filter struct {
	ignore  []string
	history int
	recent  []string
}

// NewFilter ignores texts containing any of ignore and remembers the last
// history accepted texts. A history below 1 remembers only the last one.
func NewFilter(ignore []string, history int) *Filter {
	if history < 1 {
		history = 1
	}
	return &Filter{
		ignore:  ignore,
		history: history,
	}
}

// Accept reports whether text is new and should be emitted, recording it if so
func (f *Filter) Accept(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	for _, s := range f.ignore {
		if s != "" && strings.Contains(text, s) {
			return false
		}
	}

	for _, seen := range f.recent {
		if seen == text {
			return false
		}
	}

	f.recent = append(f.recent, text)
	if len(f.recent) > f.history {
		f.recent = f.recent[len(f.recent)-f.history:]
	}
	return true
}

// Reset forgets the history
func (f *Filter) Reset() {
	f.recent = nil
}
