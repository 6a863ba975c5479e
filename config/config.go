// Package config loads and saves the toolchain configuration from a TOML
// file in the platform config directory.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the RAM toolchain configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxSteps    uint64 `toml:"max_steps"`
		ReadPastEnd string `toml:"read_past_end"` // zero, error
		EnableTrace bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Debugger settings
	Debugger struct {
		HistorySize int  `toml:"history_size"`
		ShowSource  bool `toml:"show_source"`
	} `toml:"debugger"`

	// Display settings
	Display struct {
		TokenDumpWidth int `toml:"token_dump_width"`
	} `toml:"display"`

	// Trace settings
	Trace struct {
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxSteps = 1000000
	cfg.Execution.ReadPastEnd = "zero"
	cfg.Execution.EnableTrace = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowSource = true

	cfg.Display.TokenDumpWidth = 80

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	return cfg
}

// userDir returns the per-user directory for the given purpose ("config" or
// "data"), or "" when none can be determined.
func userDir(purpose string) string {
	if runtime.GOOS == "windows" {
		root := os.Getenv("APPDATA")
		if root == "" {
			profile := os.Getenv("USERPROFILE")
			if profile == "" {
				return ""
			}
			root = filepath.Join(profile, "AppData", "Roaming")
		}
		return filepath.Join(root, "ram-machine")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if purpose == "data" {
		return filepath.Join(home, ".local", "share", "ram-machine")
	}
	return filepath.Join(home, ".config", "ram-machine")
}

// GetConfigPath returns the user's config file path, creating its directory
// on first use. When no per-user directory exists it falls back to
// config.toml in the working directory.
func GetConfigPath() string {
	dir := userDir("config")
	if dir == "" || os.MkdirAll(dir, 0o750) != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the directory trace output defaults to, creating it on
// first use. When no per-user directory exists it falls back to ./logs.
func GetLogPath() string {
	dir := userDir("data")
	if dir == "" {
		return "logs"
	}
	dir = filepath.Join(dir, "logs")
	if os.MkdirAll(dir, 0o750) != nil {
		return "logs"
	}
	return dir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, layered over the
// defaults. A missing file is not an error; it yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	_, err := toml.DecodeFile(path, cfg)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file, creating parent
// directories as needed.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}
