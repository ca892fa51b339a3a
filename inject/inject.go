// Package inject types text into the target application and submits it.
package inject

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrUnsupported is returned by injectors that cannot run on this platform
var ErrUnsupported = errors.New("injection not supported on this platform")

// Injector submits a line of text to the target as if the user typed it
type Injector interface {
	InjectAndSubmit(ctx context.Context, text string) error
}

// Func adapts a function to Injector
type Func func(ctx context.Context, text string) error

func (f Func) InjectAndSubmit(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Manual asks an operator to type each probe into the target by hand.
// A single goroutine owns the input reader; Manual is not safe for
// concurrent use.
type Manual struct {
	out io.Writer
	in  *bufio.Reader

	once     sync.Once
	requests chan struct{}
	results  chan error
	pending  bool // a confirmation was requested and not yet received
}

// NewManual prompts on out and waits for a line on in
func NewManual(out io.Writer, in io.Reader) *Manual {
	return &Manual{
		out:      out,
		in:       bufio.NewReader(in),
		requests: make(chan struct{}, 1),
		results:  make(chan error, 1),
	}
}

func (m *Manual) readLoop() {
	for range m.requests {
		_, err := m.in.ReadString('\n')
		m.results <- err
	}
}

// InjectAndSubmit prints text and blocks until the operator confirms with
// Enter. After a cancelled call the pending read carries over, so the next
// Enter confirms the next prompt.
func (m *Manual) InjectAndSubmit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Type and send this line in the target's chat, then press Enter here:\n  %s\n", text)

	m.once.Do(func() { go m.readLoop() })
	if !m.pending {
		m.requests <- struct{}{}
		m.pending = true
	}

	select {
	case err := <-m.results:
		m.pending = false
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the reader goroutine once its current read returns
func (m *Manual) Close() error {
	m.once.Do(func() {})
	close(m.requests)
	return nil
}
