// Package discover finds known terminal programs on the host PATH.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"hangar/internal/catalog"
	"hangar/internal/debug"
)

// Candidate is a known program found on the PATH.
type Candidate struct {
	Name        string
	Command     string
	Path        string // Resolved executable path
	Description string
	Category    string
}

// Scan walks every PATH directory looking for executables whose basename
// matches the builtin registry. The first hit in PATH order wins; results
// come back sorted by name.
func Scan() ([]Candidate, error) {
	entries, err := catalog.Builtins()
	if err != nil {
		return nil, err
	}
	known := make(map[string]catalog.BuiltinEntry, len(entries))
	for _, e := range entries {
		known[e.Command] = e
	}

	var found []Candidate
	seen := make(map[string]bool)
	var mu sync.Mutex

	// Follow symlinks: many package managers install commands as links
	conf := &fastwalk.Config{
		Follow: true,
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}

		err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip errors, continue walking
			}

			// Skip the root directory itself
			if fullPath == dir {
				return nil
			}

			// PATH directories are scanned flat
			if d.IsDir() {
				return fastwalk.SkipDir
			}

			entry, ok := known[d.Name()]
			if !ok {
				return nil
			}

			info, err := fastwalk.StatDirEntry(fullPath, d)
			if err != nil {
				return nil
			}
			if !info.Mode().IsRegular() || info.Mode()&0o111 == 0 {
				return nil
			}

			mu.Lock()
			if !seen[entry.Name] {
				seen[entry.Name] = true
				found = append(found, Candidate{
					Name:        entry.Name,
					Command:     entry.Command,
					Path:        fullPath,
					Description: entry.Description,
					Category:    entry.Category,
				})
			}
			mu.Unlock()
			return nil
		})
		if err != nil {
			// A missing PATH entry is not fatal for the scan
			debug.Log(debug.DISCOVER, "skipping %s: %v", dir, err)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	debug.Log(debug.DISCOVER, "found %d known programs on PATH", len(found))
	return found, nil
}
