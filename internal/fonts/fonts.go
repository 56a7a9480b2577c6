// Package fonts scans the configured font directories and indexes the
// TrueType/OpenType files found there for the control surface.
package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var fontExts = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
}

// Entry is one installed font: a display name (file stem) and its path.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Index scans a set of directories for font files. Directories that do not
// exist are skipped, so one config works across machines.
type Index struct {
	dirs []string

	mu      sync.Mutex
	entries []Entry
}

// NewIndex creates an index over the given directories. Nothing is scanned
// until Scan or List is called.
func NewIndex(dirs []string) *Index {
	return &Index{dirs: dirs}
}

// Scan re-reads the directories and replaces the cached entries.
func (i *Index) Scan() []Entry {
	seen := make(map[string]bool)
	var entries []Entry

	for _, dir := range i.dirs {
		names, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, de := range names {
			if de.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(de.Name()))
			if !fontExts[ext] {
				continue
			}
			path := filepath.Join(dir, de.Name())
			if seen[path] {
				continue
			}
			seen[path] = true
			stem := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
			entries = append(entries, Entry{Name: stem, Path: path})
		}
	}

	sort.Slice(entries, func(a, b int) bool {
		return strings.ToLower(entries[a].Name) < strings.ToLower(entries[b].Name)
	})

	i.mu.Lock()
	i.entries = entries
	i.mu.Unlock()
	return entries
}

// List returns the cached entries, scanning first if nothing is cached yet.
func (i *Index) List() []Entry {
	i.mu.Lock()
	cached := i.entries
	i.mu.Unlock()
	if cached != nil {
		return cached
	}
	return i.Scan()
}

// Resolve returns path if it points at a readable file, otherwise the
// fallback (which may be empty, selecting the built-in face).
func (i *Index) Resolve(path, fallback string) string {
	if path != "" {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	if fallback != "" {
		if info, err := os.Stat(fallback); err == nil && !info.IsDir() {
			return fallback
		}
	}
	return ""
}
