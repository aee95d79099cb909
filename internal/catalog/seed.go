package catalog

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"hangar/internal/debug"
)

//go:embed builtin.yaml
var builtinRegistry []byte

// BuiltinEntry is one row of the curated registry shipped with the
// binary. The registry doubles as the recognition table for PATH scans.
type BuiltinEntry struct {
	Name        string   `yaml:"name"`
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args,omitempty"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
}

// Builtins returns the embedded registry.
func Builtins() ([]BuiltinEntry, error) {
	var entries []BuiltinEntry
	if err := yaml.Unmarshal(builtinRegistry, &entries); err != nil {
		return nil, fmt.Errorf("builtin registry: %w", err)
	}
	return entries, nil
}

// Seed inserts the builtin registry, skipping names that already exist.
// A non-empty available list restricts seeding to those commands, so a
// first run catalogs only programs actually installed on the host; nil
// seeds everything. Safe to run on every startup; returns how many
// entries were added.
func (s *Store) Seed(available []string) (int, error) {
	entries, err := Builtins()
	if err != nil {
		return 0, err
	}

	var installed map[string]bool
	if len(available) > 0 {
		installed = make(map[string]bool, len(available))
		for _, cmd := range available {
			installed[cmd] = true
		}
	}

	added := 0
	for _, e := range entries {
		if installed != nil && !installed[e.Command] {
			continue
		}
		res, err := s.conn.Exec(
			`INSERT OR IGNORE INTO tuis (id, name, command, args, description, category, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), e.Name, e.Command, encodeArgs(e.Args),
			e.Description, e.Category, time.Now(),
		)
		if err != nil {
			return added, fmt.Errorf("seed %q: %w", e.Name, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			continue
		}
		added++
		if err := s.ensureCategory(e.Category); err != nil {
			return added, err
		}
	}

	debug.Log(debug.STORE, "seeded %d builtin entries", added)
	return added, nil
}
