package process_blob

import (
	"testing"

	"chatscan/process"
	"chatscan/process/memory_map"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory(7)
	m.AddRegion(0x2000, "rw-p", make([]byte, 64))
	m.AddRegion(0x1000, "r--p", []byte("read only data"))

	require.NoError(t, m.Write(0x2010, []byte("hello")))
	data, err := m.ReadMemory(0x2010, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	regions, err := m.Regions()
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, uint64(0x1000), regions[0].Address)

	_, err = m.ReadMemory(0x5000, 4)
	assert.ErrorIs(t, err, process.ErrAddressNotMapped)

	_, err = m.ReadMemory(0x2030, 32)
	assert.ErrorIs(t, err, process.ErrPartialRead)

	assert.Error(t, m.Write(0x2030, make([]byte, 32)))
	assert.Equal(t, 3, m.Reads())
}

func TestMemoryFailingRegion(t *testing.T) {
	m := NewMemory(7)
	m.AddRegion(0x1000, "rw-p", []byte("secret"))
	m.FailReads(0x1000)

	assert.Nil(t, process.TryRead(m, 0x1000, 6))
}

func TestMemoryLifecycle(t *testing.T) {
	m := NewMemory(7)
	assert.True(t, m.IsRunning())
	m.Exit()
	assert.False(t, m.IsRunning())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, m.Closes())
	assert.Equal(t, process.ProcessID(0), m.GetPID())

	_, err := m.Regions()
	assert.ErrorIs(t, err, process.ErrProcessNotOpen)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := NewMemory(99)
	m.AddRegion(0x1000, "rw-p", []byte("chat buffer 12345"))
	m.AddRegion(0x8000, "r--p", []byte("code"))
	m.AddRegion(0x9000, "rw-p", []byte("unreadable"))
	m.FailReads(0x9000)

	dir := t.TempDir()
	require.NoError(t, Save(m, 99, "Game.exe", dir, memory_map.IsScanCandidate))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, process.ProcessID(99), loaded.PID)
	assert.Equal(t, "Game.exe", loaded.Name)

	regions, err := loaded.Regions()
	require.NoError(t, err)
	require.Len(t, regions, 1)

	data, err := loaded.ReadMemory(0x1000, 17)
	require.NoError(t, err)
	assert.Equal(t, "chat buffer 12345", string(data))
}

func TestMemoryReadSizeOverflow(t *testing.T) {
	m := NewMemory(7)
	m.AddRegion(0x1000, "rw-p", []byte("0123456789"))

	var data []byte
	var err error
	assert.NotPanics(t, func() {
		data, err = m.ReadMemory(0x1002, process.ProcessMemorySize(^uint(0)-1))
	})
	require.ErrorIs(t, err, process.ErrPartialRead)
	assert.Equal(t, []byte("23456789"), data)

	assert.Nil(t, process.TryRead(m, 0x1002, process.ProcessMemorySize(^uint(0)-1)))
}
