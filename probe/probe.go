// Package probe generates the one-time marker strings typed into the target
// so their bytes can be located in its memory.
package probe

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// Digits is the default alphabet. Letters can be swallowed by the target's
	// input handling as hotkeys; digits are always typed literally.
	Digits = "0123456789"

	// Alphanumeric gives more entropy per character for targets without that problem.
	Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	MinLength = 10
)

var ErrWeakProbe = errors.New("probe entropy below target")

// Generator produces fixed-length random strings over an alphabet
type Generator struct {
	alphabet []rune
	length   int
	rand     io.Reader
}

// Option is a function that configures a Generator
type Option func(*Generator)

// WithRandom replaces crypto/rand as the randomness source
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// New creates a Generator. The alphabet must have at least two distinct
// characters and length must be at least MinLength.
func New(alphabet string, length int, options ...Option) (*Generator, error) {
	runes := []rune(alphabet)
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if seen[r] {
			return nil, fmt.Errorf("alphabet repeats %q", r)
		}
		seen[r] = true
	}
	if len(runes) < 2 || len(runes) > 1<<16 {
		return nil, fmt.Errorf("alphabet needs 2 to 65536 characters, got %d", len(runes))
	}
	if length < MinLength {
		return nil, fmt.Errorf("probe length %d is below the minimum of %d", length, MinLength)
	}

	g := &Generator{alphabet: runes, length: length, rand: rand.Reader}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// NewWithEntropy creates a Generator whose length is the smallest that
// reaches bits of entropy (and at least MinLength)
func NewWithEntropy(alphabet string, bits float64, options ...Option) (*Generator, error) {
	return New(alphabet, max(MinLength, LengthFor(alphabet, bits)), options...)
}

// Next returns a fresh probe
func (g *Generator) Next() (string, error) {
	out := make([]rune, g.length)
	for i := range out {
		idx, err := g.draw()
		if err != nil {
			return "", fmt.Errorf("failed to draw probe character: %w", err)
		}
		out[i] = g.alphabet[idx]
	}
	return string(out), nil
}

// draw returns a uniform index into the alphabet by rejection sampling
func (g *Generator) draw() (int, error) {
	n := len(g.alphabet)
	var b [2]byte
	limit := 65536 - 65536%n
	for {
		if _, err := io.ReadFull(g.rand, b[:]); err != nil {
			return 0, err
		}
		v := int(b[0])<<8 | int(b[1])
		if v < limit {
			return v % n, nil
		}
	}
}

// Length returns the probe length in characters
func (g *Generator) Length() int {
	return g.length
}

// EntropyBits is length * log2(alphabet size)
func (g *Generator) EntropyBits() float64 {
	return float64(g.length) * math.Log2(float64(len(g.alphabet)))
}

// Require returns ErrWeakProbe when the generator falls short of bits
func (g *Generator) Require(bits float64) error {
	if g.EntropyBits() < bits {
		return fmt.Errorf("%w: %.1f bits < %.1f bits", ErrWeakProbe, g.EntropyBits(), bits)
	}
	return nil
}

// LengthFor returns the smallest length reaching bits of entropy over alphabet
func LengthFor(alphabet string, bits float64) int {
	size := len([]rune(alphabet))
	if size < 2 || bits <= 0 {
		return 0
	}
	return int(math.Ceil(bits / math.Log2(float64(size))))
}

// FalseMatchBound is a union bound on the probability that a uniformly random
// probe of the given entropy occurs by chance anywhere in scannedBytes bytes
// of memory: every byte offset is one chance of 2^-bits.
//
// The bound assumes memory contents independent of the probe. For the
// three-round intersection a decoy must match three independent probes at the
// same offset, which cubes the per-offset probability.
func FalseMatchBound(bits float64, scannedBytes uint64) float64 {
	p := float64(scannedBytes) * math.Exp2(-bits)
	return math.Min(1, p)
}
