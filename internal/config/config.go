// Package config loads and persists user settings from config.json.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	UI       UIConfig       `json:"ui"`
	Launch   LaunchConfig   `json:"launch"`
	Behavior BehaviorConfig `json:"behavior"`
	Keys     KeysConfig     `json:"keys"`
}

// UIConfig holds browser display settings
type UIConfig struct {
	ShowDescriptions bool `json:"showDescriptions"`
	HistoryLimit     int  `json:"historyLimit"` // Rows shown in the history view
}

// LaunchConfig holds launch settings
type LaunchConfig struct {
	Terminal        string `json:"terminal"`        // Preferred emulator ID; empty = auto-detect
	DefaultAttached bool   `json:"defaultAttached"` // CLI launch mode when no flag given
}

// BehaviorConfig holds behavior settings
type BehaviorConfig struct {
	ConfirmDelete   bool `json:"confirmDelete"`
	RememberLastTab bool `json:"rememberLastTab"`
	SeedBuiltins    bool `json:"seedBuiltins"` // Seed the builtin registry into an empty catalog
}

// KeysConfig holds browser hotkeys as plain key names; empty values fall
// back to the defaults.
type KeysConfig struct {
	Launch   string `json:"launch"`
	Detach   string `json:"detach"`
	Favorite string `json:"favorite"`
	Yank     string `json:"yank"`
	History  string `json:"history"`
	Delete   string `json:"delete"`
	NextTab  string `json:"nextTab"`
	PrevTab  string `json:"prevTab"`
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ShowDescriptions: true,
			HistoryLimit:     50,
		},
		Launch: LaunchConfig{
			Terminal:        "",
			DefaultAttached: false,
		},
		Behavior: BehaviorConfig{
			ConfirmDelete:   true,
			RememberLastTab: true,
			SeedBuiltins:    true,
		},
		Keys: KeysConfig{
			Launch:   "enter",
			Detach:   "d",
			Favorite: "f",
			Yank:     "y",
			History:  "h",
			Delete:   "x",
			NextTab:  "tab",
			PrevTab:  "shift+tab",
		},
	}
}

// ConfigPath returns the config file path: ~/.config/hangar/config.json
// This is consistent across all platforms
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hangar", "config.json")
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		m.path = ConfigPath()
	}
	m.parseErr = nil

	// Ensure config directory exists
	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	// Try to read existing config
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		// Create default config file
		m.config = DefaultConfig()
		if saveErr := m.saveUnlocked(); saveErr != nil {
			log.Printf("Config: failed to save default config: %v", saveErr)
			return saveErr
		}
		return nil
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", m.path, err)
		return err
	}

	// Parse JSON
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		// Store error for UI display, use defaults
		log.Printf("Config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}

	m.config = cfg
	return nil
}

// LoadFrom reads the configuration from an explicit path.
func (m *Manager) LoadFrom(path string) error {
	m.mu.Lock()
	m.path = path
	m.mu.Unlock()
	return m.Load()
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetTerminal updates the preferred terminal emulator
func (m *Manager) SetTerminal(id string) {
	m.mu.Lock()
	m.config.Launch.Terminal = id
	m.mu.Unlock()
	m.Save()
}

// SetDefaultAttached updates the default CLI launch mode
func (m *Manager) SetDefaultAttached(attached bool) {
	m.mu.Lock()
	m.config.Launch.DefaultAttached = attached
	m.mu.Unlock()
	m.Save()
}

// GenerateConfig backs up existing config and creates a fresh default config
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig() (backupPath string, err error) {
	configPath := ConfigPath()

	// Check if existing config exists
	if _, err := os.Stat(configPath); err == nil {
		// Create backup with timestamp
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(configPath), "config.backup."+timestamp+".json")

		// Read existing config
		data, err := os.ReadFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}

		// Write backup
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write fresh default config
	defaultCfg := DefaultConfig()
	data, err := json.MarshalIndent(defaultCfg, "", "  ")
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}

	return backupPath, nil
}
