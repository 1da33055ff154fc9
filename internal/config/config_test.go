package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CallbackTimeoutSecs != DefaultCallbackTimeoutSecs {
		t.Errorf("expected timeout %d, got %d", DefaultCallbackTimeoutSecs, cfg.CallbackTimeoutSecs)
	}
	if cfg.OpenCommand != "open" {
		t.Errorf("expected open command %q, got %q", "open", cfg.OpenCommand)
	}
	if cfg.Token != "" {
		t.Errorf("default config must not carry a token, got %q", cfg.Token)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	cfg := DefaultConfig()
	cfg.CallbackTimeoutSecs = 30
	cfg.OpenCommand = "xdg-open"
	cfg.Token = "fallback-token"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if loaded.CallbackTimeoutSecs != 30 {
		t.Errorf("expected timeout 30, got %d", loaded.CallbackTimeoutSecs)
	}
	if loaded.OpenCommand != "xdg-open" {
		t.Errorf("expected open command %q, got %q", "xdg-open", loaded.OpenCommand)
	}
	if loaded.Token != "fallback-token" {
		t.Errorf("expected token round trip, got %q", loaded.Token)
	}
	if loaded.InitTime == 0 {
		t.Error("InitTime should be set on first save")
	}
}

func TestSaveSetsRestrictivePermissions(t *testing.T) {
	path := tempConfigPath(t)

	cfg := DefaultConfig()
	cfg.Token = "secret"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	// The file may hold the token fallback, so only the owner may read it
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected permissions 0600, got %o", perm)
	}
}

func TestLoadFromBackfillsZeroValues(t *testing.T) {
	path := tempConfigPath(t)

	// Hand-edited config with fields removed
	content := "version: \"1.0\"\ninit_time: 1700000000\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.CallbackTimeoutSecs != DefaultCallbackTimeoutSecs {
		t.Errorf("expected backfilled timeout, got %d", cfg.CallbackTimeoutSecs)
	}
	if cfg.OpenCommand != DefaultOpenCommand {
		t.Errorf("expected backfilled open command, got %q", cfg.OpenCommand)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing, got: %v", err)
	}
}

func TestCallbackTimeout(t *testing.T) {
	cfg := Config{CallbackTimeoutSecs: 25}
	if got := cfg.CallbackTimeout(); got != 25*time.Second {
		t.Errorf("expected 25s, got %v", got)
	}

	// Zero and negative values fall back to the default
	cfg.CallbackTimeoutSecs = 0
	if got := cfg.CallbackTimeout(); got != DefaultCallbackTimeoutSecs*time.Second {
		t.Errorf("expected default timeout, got %v", got)
	}
}

func TestSavePreservesInitTime(t *testing.T) {
	path := tempConfigPath(t)

	cfg := DefaultConfig()
	cfg.InitTime = 1700000000
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.InitTime != 1700000000 {
		t.Errorf("InitTime should survive re-saves, got %d", loaded.InitTime)
	}
}
