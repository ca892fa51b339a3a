// Package config loads the chatscan YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chatscan/probe"
	"chatscan/textenc"

	"gopkg.in/yaml.v3"
)

// Injector names
const (
	InjectorKeyboard = "keyboard"
	InjectorManual   = "manual"
)

// Config is the complete chatscan configuration
type Config struct {
	ProcessName string   `yaml:"process_name"`
	WindowTitle string   `yaml:"window_title"`
	Encodings   []string `yaml:"encodings"`
	Injector    string   `yaml:"injector"`

	Probe    ProbeConfig    `yaml:"probe"`
	Resolver ResolverConfig `yaml:"resolver"`
	Poll     PollConfig     `yaml:"poll"`
	Scan     ScanConfig     `yaml:"scan"`
}

// ProbeConfig shapes the random probe messages
type ProbeConfig struct {
	Alphabet       string  `yaml:"alphabet"`
	Length         int     `yaml:"length"`
	MinEntropyBits float64 `yaml:"min_entropy_bits"`
}

// ResolverConfig controls the probe rounds
type ResolverConfig struct {
	Rounds      int    `yaml:"rounds"`
	SettleDelay string `yaml:"settle_delay"`
	KeyDelay    string `yaml:"key_delay"`
}

// PollConfig controls the chat monitor
type PollConfig struct {
	Interval    string   `yaml:"interval"`
	MaxBytes    int      `yaml:"max_bytes"`
	Ignore      []string `yaml:"ignore"`
	History     int      `yaml:"history"`
	AutoResolve bool     `yaml:"auto_resolve"`
}

// ScanConfig bounds region scans
type ScanConfig struct {
	MaxRegionSize uint `yaml:"max_region_size"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		ProcessName: "HeroesOfTheStorm_x64.exe",
		WindowTitle: "《风暴英雄》",
		Encodings:   append([]string(nil), textenc.Defaults...),
		Injector:    InjectorKeyboard,
		Probe: ProbeConfig{
			Alphabet:       probe.Digits,
			Length:         12,
			MinEntropyBits: 32,
		},
		Resolver: ResolverConfig{
			Rounds:      3,
			SettleDelay: "500ms",
			KeyDelay:    "10ms",
		},
		Poll: PollConfig{
			Interval: "1s",
			MaxBytes: 200,
			Ignore: []string{
				"综合 한국어",
				`<c val="3184FF">[团队]:</c>`,
				"浏览战利",
				"浏览收藏",
				"菜单",
			},
			History: 1,
		},
		Scan: ScanConfig{
			MaxRegionSize: 256 << 20,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHATSCAN_PROCESS_NAME"); v != "" {
		c.ProcessName = v
	}
	if v := os.Getenv("CHATSCAN_WINDOW_TITLE"); v != "" {
		c.WindowTitle = v
	}
}

// Validate checks every field that would otherwise fail later at run time
func (c *Config) Validate() error {
	if c.ProcessName == "" {
		return fmt.Errorf("process_name is required")
	}

	if len(c.Encodings) == 0 {
		return fmt.Errorf("at least one encoding is required")
	}
	for _, name := range c.Encodings {
		if _, ok := textenc.Lookup(name); !ok {
			return fmt.Errorf("unknown encoding: %s", name)
		}
	}

	if c.Injector != InjectorKeyboard && c.Injector != InjectorManual {
		return fmt.Errorf("invalid injector: %s (valid: %s, %s)", c.Injector, InjectorKeyboard, InjectorManual)
	}

	if _, err := c.NewProbeGenerator(); err != nil {
		return fmt.Errorf("invalid probe settings: %w", err)
	}

	if c.Resolver.Rounds < 1 {
		return fmt.Errorf("resolver.rounds must be at least 1, got %d", c.Resolver.Rounds)
	}

	for key, value := range map[string]string{
		"resolver.settle_delay": c.Resolver.SettleDelay,
		"resolver.key_delay":    c.Resolver.KeyDelay,
		"poll.interval":         c.Poll.Interval,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: %s is not positive", key, value)
		}
	}

	if c.Poll.MaxBytes < 1 {
		return fmt.Errorf("poll.max_bytes must be positive, got %d", c.Poll.MaxBytes)
	}

	return nil
}

// SettleDelay is the parsed resolver.settle_delay
func (c *Config) SettleDelay() time.Duration {
	return parseDuration(c.Resolver.SettleDelay, 500*time.Millisecond)
}

// KeyDelay is the parsed resolver.key_delay
func (c *Config) KeyDelay() time.Duration {
	return parseDuration(c.Resolver.KeyDelay, 10*time.Millisecond)
}

// PollInterval is the parsed poll.interval
func (c *Config) PollInterval() time.Duration {
	return parseDuration(c.Poll.Interval, time.Second)
}

// NewProbeGenerator builds the generator described by the probe section
func (c *Config) NewProbeGenerator() (*probe.Generator, error) {
	gen, err := probe.New(c.Probe.Alphabet, c.Probe.Length)
	if err != nil {
		return nil, err
	}
	if err := gen.Require(c.Probe.MinEntropyBits); err != nil {
		return nil, err
	}
	return gen, nil
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
