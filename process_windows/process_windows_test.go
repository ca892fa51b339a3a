//go:build windows

package process_windows

import (
	"os"
	"runtime"
	"testing"
	"unsafe"

	"chatscan/process"
	"chatscan/process/memory_map"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOwnMemory(t *testing.T) {
	p, err := NewWithPID(process.ProcessID(os.Getpid()))
	require.NoError(t, err)
	defer p.Close()

	buf := []byte("needle-in-our-own-heap")
	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&buf[0])))

	data, err := p.ReadMemory(addr, process.ProcessMemorySize(len(buf)))
	require.NoError(t, err)
	assert.Equal(t, buf, data)
	runtime.KeepAlive(buf)

	assert.True(t, p.IsRunning())
	assert.Nil(t, process.TryRead(p, 0x10, 16))
}

func TestRegionsWalkTerminates(t *testing.T) {
	p, err := NewWithPID(process.ProcessID(os.Getpid()))
	require.NoError(t, err)
	defer p.Close()

	regions, err := p.Regions()
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	candidates := 0
	for i, r := range regions {
		if i > 0 {
			assert.Greater(t, r.Address, regions[i-1].Address)
		}
		if memory_map.IsScanCandidate(r) {
			candidates++
		}
	}
	assert.Positive(t, candidates)
}

func TestCloseIsIdempotent(t *testing.T) {
	p, err := NewWithPID(process.ProcessID(os.Getpid()))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.NoError(t, New().Close())
}

func TestProtectToPerms(t *testing.T) {
	assert.Equal(t, "rw-p", memory_map.ProtectToPerms(0x04))
	assert.Equal(t, "rwxp", memory_map.ProtectToPerms(0x40))
	assert.Equal(t, "r--p", memory_map.ProtectToPerms(0x02))
	assert.Equal(t, "---p", memory_map.ProtectToPerms(0x04|0x100))
	assert.Equal(t, "---p", memory_map.ProtectToPerms(0x01))
}
