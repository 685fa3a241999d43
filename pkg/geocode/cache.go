package geocode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
)

// Cache is a persisted map from normalized address to coordinates. Entries
// are written once and read many times; the cache only grows. It is loaded
// once at process start and saved after every store, so a crashed run loses
// at most nothing. One process owns the file at a time; concurrent runs
// against the same path are not supported.
type Cache struct {
	path    string
	entries map[string]cachedPoint
}

type cachedPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

var foldCaser = cases.Fold()

// normalizeKey trims, collapses inner whitespace, and case-folds an address
// so trivially different spellings share a cache entry.
func normalizeKey(address string) string {
	return foldCaser.String(strings.Join(strings.Fields(address), " "))
}

// LoadCache reads the cache file at path, returning an empty cache when the
// file does not exist yet.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]cachedPoint)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, eris.Wrap(err, "geocode: read cache")
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, eris.Wrap(err, "geocode: parse cache")
	}
	return c, nil
}

// Get returns the cached result for an address, if present.
func (c *Cache) Get(address string) (*Result, bool) {
	p, ok := c.entries[normalizeKey(address)]
	if !ok {
		return nil, false
	}
	return &Result{Latitude: p.Latitude, Longitude: p.Longitude, Matched: true}, true
}

// Put stores a matched result and persists the cache to disk.
func (c *Cache) Put(address string, r *Result) error {
	c.entries[normalizeKey(address)] = cachedPoint{Latitude: r.Latitude, Longitude: r.Longitude}
	return c.Save()
}

// Len returns the number of cached addresses.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Save writes the cache to its file, creating the parent directory when
// needed. The write goes through a temp file and rename so a crash cannot
// leave a truncated cache behind.
func (c *Cache) Save() error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "geocode: create cache dir")
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "geocode: encode cache")
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "geocode: write cache")
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return eris.Wrap(err, "geocode: replace cache")
	}
	return nil
}

// Clear removes all entries and deletes the backing file.
func (c *Cache) Clear() error {
	c.entries = make(map[string]cachedPoint)
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "geocode: remove cache file")
	}
	return nil
}
