//go:build !windows

package inject

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboardUnsupported(t *testing.T) {
	k, err := NewKeyboard(10 * time.Millisecond)
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, k)

	assert.ErrorIs(t, (&Keyboard{}).InjectAndSubmit(context.Background(), "x"), ErrUnsupported)
}
