package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chatscan/probe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"utf-8", "utf-16-le", "utf-16"}, cfg.Encodings)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, 10*time.Millisecond, cfg.KeyDelay())
	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Equal(t, 200, cfg.Poll.MaxBytes)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("CHATSCAN_PROCESS_NAME", "")
	t.Setenv("CHATSCAN_WINDOW_TITLE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("CHATSCAN_PROCESS_NAME", "")
	t.Setenv("CHATSCAN_WINDOW_TITLE", "")

	path := filepath.Join(t.TempDir(), "chatscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
process_name: Game.exe
encodings: [utf-16-le, euc-kr]
injector: manual
resolver:
  settle_delay: 2s
poll:
  interval: 250ms
  ignore: ["[System]"]
  history: 8
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Game.exe", cfg.ProcessName)
	assert.Equal(t, []string{"utf-16-le", "euc-kr"}, cfg.Encodings)
	assert.Equal(t, InjectorManual, cfg.Injector)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay())
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, []string{"[System]"}, cfg.Poll.Ignore)
	assert.Equal(t, 8, cfg.Poll.History)

	// untouched keys keep their defaults
	assert.Equal(t, 3, cfg.Resolver.Rounds)
	assert.Equal(t, 200, cfg.Poll.MaxBytes)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHATSCAN_PROCESS_NAME", "Other.exe")
	t.Setenv("CHATSCAN_WINDOW_TITLE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Other.exe", cfg.ProcessName)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encodings: {"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("CHATSCAN_PROCESS_NAME", "")
	t.Setenv("CHATSCAN_WINDOW_TITLE", "")

	path := filepath.Join(t.TempDir(), "sub", "chatscan.yaml")
	cfg := DefaultConfig()
	cfg.Probe.Length = 16
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no process", func(c *Config) { c.ProcessName = "" }, "process_name"},
		{"no encodings", func(c *Config) { c.Encodings = nil }, "encoding"},
		{"unknown encoding", func(c *Config) { c.Encodings = []string{"utf-8", "klingon"} }, "klingon"},
		{"bad injector", func(c *Config) { c.Injector = "telepathy" }, "injector"},
		{"short probe", func(c *Config) { c.Probe.Length = 4 }, "probe"},
		{"weak probe", func(c *Config) { c.Probe.MinEntropyBits = 64 }, "probe"},
		{"no rounds", func(c *Config) { c.Resolver.Rounds = 0 }, "rounds"},
		{"bad delay", func(c *Config) { c.Resolver.SettleDelay = "soon" }, "settle_delay"},
		{"zero interval", func(c *Config) { c.Poll.Interval = "0s" }, "poll.interval"},
		{"no max bytes", func(c *Config) { c.Poll.MaxBytes = 0 }, "max_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWeakProbeIsReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probe.MinEntropyBits = 64
	_, err := cfg.NewProbeGenerator()
	assert.True(t, errors.Is(err, probe.ErrWeakProbe))
}
