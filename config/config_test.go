package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxSteps != 1000000 {
		t.Errorf("Expected MaxSteps=1000000, got %d", cfg.Execution.MaxSteps)
	}
	if cfg.Execution.ReadPastEnd != "zero" {
		t.Errorf("Expected ReadPastEnd=zero, got %s", cfg.Execution.ReadPastEnd)
	}
	if cfg.Execution.EnableTrace {
		t.Error("Expected EnableTrace=false")
	}

	if cfg.Debugger.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.Debugger.HistorySize)
	}
	if !cfg.Debugger.ShowSource {
		t.Error("Expected ShowSource=true")
	}

	if cfg.Display.TokenDumpWidth != 80 {
		t.Errorf("Expected TokenDumpWidth=80, got %d", cfg.Display.TokenDumpWidth)
	}

	if cfg.Trace.OutputFile != "trace.log" {
		t.Errorf("Expected OutputFile=trace.log, got %s", cfg.Trace.OutputFile)
	}
	if cfg.Trace.MaxEntries != 100000 {
		t.Errorf("Expected MaxEntries=100000, got %d", cfg.Trace.MaxEntries)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Execution.MaxSteps != 1000000 {
		t.Error("Expected defaults for missing file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxSteps = 42
	cfg.Execution.ReadPastEnd = "error"
	cfg.Debugger.HistorySize = 7

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Execution.MaxSteps != 42 {
		t.Errorf("Expected MaxSteps=42, got %d", loaded.Execution.MaxSteps)
	}
	if loaded.Execution.ReadPastEnd != "error" {
		t.Errorf("Expected ReadPastEnd=error, got %s", loaded.Execution.ReadPastEnd)
	}
	if loaded.Debugger.HistorySize != 7 {
		t.Errorf("Expected HistorySize=7, got %d", loaded.Debugger.HistorySize)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[execution]\nmax_steps = 5\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Execution.MaxSteps != 5 {
		t.Errorf("Expected MaxSteps=5, got %d", cfg.Execution.MaxSteps)
	}
	// Unset sections keep their defaults.
	if cfg.Debugger.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.Debugger.HistorySize)
	}
}

func TestLoadFromInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for invalid TOML")
	}
}
