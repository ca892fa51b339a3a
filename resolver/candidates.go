package resolver

import (
	"sort"

	"chatscan/process"
)

// CandidateSet holds the addresses believed to contain a probe
type CandidateSet map[process.ProcessMemoryAddress]struct{}

// NewCandidateSet builds a set from scan results; duplicates collapse
func NewCandidateSet(addrs []process.ProcessMemoryAddress) CandidateSet {
	set := make(CandidateSet, len(addrs))
	for _, a := range addrs {
		set[a] = struct{}{}
	}
	return set
}

// Intersect returns the addresses present in both sets
func (c CandidateSet) Intersect(other CandidateSet) CandidateSet {
	small, large := c, other
	if len(large) < len(small) {
		small, large = large, small
	}

	out := make(CandidateSet)
	for a := range small {
		if _, ok := large[a]; ok {
			out[a] = struct{}{}
		}
	}
	return out
}

// Sorted returns the addresses in ascending order
func (c CandidateSet) Sorted() []process.ProcessMemoryAddress {
	out := make([]process.ProcessMemoryAddress, 0, len(c))
	for a := range c {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intersect returns the addresses found in every round. No rounds means no candidates.
func Intersect(rounds ...[]process.ProcessMemoryAddress) CandidateSet {
	if len(rounds) == 0 {
		return CandidateSet{}
	}

	set := NewCandidateSet(rounds[0])
	for _, round := range rounds[1:] {
		set = set.Intersect(NewCandidateSet(round))
	}
	return set
}
