package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/hexa/pkg/core"
)

// indexEntry holds a decoded order and the mtime of the file it came from.
type indexEntry struct {
	Order        core.Order `json:"order"`
	LastModified time.Time  `json:"lastModified"`
}

// index represents the persistent cache state.
type index struct {
	Version  int                    `json:"version"`
	Sequence core.OrderID           `json:"sequence"`
	Entries  map[string]*indexEntry `json:"entries"` // Key is the file name (e.g. "7.yaml")
	dirty    bool
	mu       sync.RWMutex
}

// cache manages the loading, updating, and saving of the index.
type cache struct {
	Path  string // Path to {systemDir}/index.json
	index *index
}

func newCache(root, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(root, systemDir, "index.json"),
		index: &index{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. A missing or corrupted index starts fresh.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
		c.index.Sequence = 0
		return nil
	}

	c.index.dirty = false
	return nil
}

// Save persists the cache if it is dirty.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for name if it is fresh with respect to mtime.
func (c *cache) Get(name string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

// Set updates an entry.
func (c *cache) Set(name string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	c.index.Entries[name] = entry
	c.index.dirty = true
}

// Delete removes a single entry.
func (c *cache) Delete(name string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	if _, ok := c.index.Entries[name]; ok {
		delete(c.index.Entries, name)
		c.index.dirty = true
	}
}

// Prune removes entries that are not in keep.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
			c.index.dirty = true
		}
	}
}

// Bump raises the sequence to at least floor, increments it and returns the new value.
func (c *cache) Bump(floor core.OrderID) core.OrderID {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	if c.index.Sequence < floor {
		c.index.Sequence = floor
	}
	c.index.Sequence++
	c.index.dirty = true
	return c.index.Sequence
}

// Len returns the number of entries.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
