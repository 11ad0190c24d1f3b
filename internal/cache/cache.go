// Package cache is a content-addressed persistent translation cache: a hash
// of (source text, target language) maps to a previously obtained
// translation. It exists to avoid redundant provider calls, not as a
// security boundary — hash collisions are an accepted trade-off, and
// entries never expire.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Cache holds the in-memory translation table and the path it is persisted
// to. It is not safe for concurrent use; the pipeline is its sole mutator
// during a run.
type Cache struct {
	path    string
	entries map[string]string
	dirty   bool
}

// New creates an empty cache that persists to path. Call Load to merge any
// previously persisted entries.
func New(path string) *Cache {
	return &Cache{
		path:    path,
		entries: make(map[string]string),
	}
}

// Key derives the stable cache key for a (text, language) pair. Text is
// NFC-normalized and trimmed first so trivially different encodings of the
// same string share one entry.
func Key(text, lang string) string {
	normalized := norm.NFC.String(strings.TrimSpace(text))
	sum := md5.Sum([]byte(normalized + "|" + lang))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached translation for (text, lang), if any.
func (c *Cache) Lookup(text, lang string) (string, bool) {
	tr, ok := c.entries[Key(text, lang)]
	return tr, ok
}

// Store records a freshly obtained translation.
func (c *Cache) Store(text, lang, translation string) {
	c.entries[Key(text, lang)] = translation
	c.dirty = true
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Load merges the persisted table into memory. Entries already in memory
// win, so translations added since the last Persist are never lost. A
// missing file is not an error; an unreadable or corrupt file degrades to
// whatever is already in memory.
func (c *Cache) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	stored := make(map[string]string)
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse cache file: %w", err)
	}

	for k, v := range stored {
		if _, exists := c.entries[k]; !exists {
			c.entries[k] = v
		}
	}
	return nil
}

// Persist writes the full in-memory table to disk as one whole-file write,
// so a crash can lose at most the entries since the last checkpoint but
// never corrupt existing ones. A clean cache is not rewritten.
func (c *Cache) Persist() error {
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	c.dirty = false
	return nil
}

// Clear drops every in-memory entry and removes the persisted file.
func (c *Cache) Clear() error {
	c.entries = make(map[string]string)
	c.dirty = false
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

// Path returns the on-disk location of the persisted cache.
func (c *Cache) Path() string {
	return c.path
}
