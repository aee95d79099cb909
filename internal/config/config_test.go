package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.HistoryLimit <= 0 {
		t.Errorf("HistoryLimit = %d, want positive", cfg.UI.HistoryLimit)
	}
	if !cfg.Behavior.ConfirmDelete {
		t.Error("ConfirmDelete should default on")
	}
	if cfg.Launch.Terminal != "" {
		t.Errorf("default Terminal = %q, want auto-detect", cfg.Launch.Terminal)
	}
	if cfg.Keys.Launch == "" || cfg.Keys.Detach == "" || cfg.Keys.Favorite == "" {
		t.Errorf("default keys incomplete: %+v", cfg.Keys)
	}
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManager()

	if err := m.LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
	if got := m.Get(); got.UI.HistoryLimit != DefaultConfig().UI.HistoryLimit {
		t.Errorf("fresh load differs from defaults: %+v", got)
	}
}

func TestLoadToleratesParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom returned error on bad JSON: %v", err)
	}
	if m.ParseError() == nil {
		t.Error("ParseError not recorded")
	}
	// Defaults still usable
	if got := m.Get(); got.UI.HistoryLimit != DefaultConfig().UI.HistoryLimit {
		t.Errorf("bad config did not fall back to defaults: %+v", got)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	partial := `{"launch": {"terminal": "kitty"}}`
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	cfg := m.Get()
	if cfg.Launch.Terminal != "kitty" {
		t.Errorf("Terminal = %q, want kitty", cfg.Launch.Terminal)
	}
	// Keys absent from the file keep their defaults
	if !cfg.UI.ShowDescriptions {
		t.Error("partial config clobbered UI defaults")
	}
	if cfg.Keys.Launch != "enter" {
		t.Errorf("partial config clobbered key defaults: %q", cfg.Keys.Launch)
	}
}

func TestSettersPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	m.SetTerminal("wezterm")
	m.SetDefaultAttached(true)

	reloaded := NewManager()
	if err := reloaded.LoadFrom(path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cfg := reloaded.Get()
	if cfg.Launch.Terminal != "wezterm" {
		t.Errorf("Terminal = %q after reload, want wezterm", cfg.Launch.Terminal)
	}
	if !cfg.Launch.DefaultAttached {
		t.Error("DefaultAttached not persisted")
	}
}

func TestGenerateConfigBacksUpExisting(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	old := `{"launch": {"terminal": "kitty"}}`
	if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}

	backupPath, err := GenerateConfig()
	if err != nil {
		t.Fatalf("GenerateConfig failed: %v", err)
	}
	if backupPath == "" {
		t.Fatal("no backup created for existing config")
	}

	backup, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("backup unreadable: %v", err)
	}
	if string(backup) != old {
		t.Errorf("backup content = %q, want original", backup)
	}

	fresh, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(fresh), "kitty") {
		t.Error("config not reset to defaults")
	}
}

func TestGenerateConfigNoExisting(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	backupPath, err := GenerateConfig()
	if err != nil {
		t.Fatalf("GenerateConfig failed: %v", err)
	}
	if backupPath != "" {
		t.Errorf("backup %q created with no prior config", backupPath)
	}
	if _, err := os.Stat(ConfigPath()); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}
