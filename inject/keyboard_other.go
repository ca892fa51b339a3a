//go:build !windows

package inject

import (
	"context"
	"time"
)

// Keyboard is only available on Windows
type Keyboard struct {
	KeyDelay time.Duration
}

// NewKeyboard reports ErrUnsupported off Windows
func NewKeyboard(time.Duration) (*Keyboard, error) {
	return nil, ErrUnsupported
}

func (k *Keyboard) InjectAndSubmit(context.Context, string) error {
	return ErrUnsupported
}
