package syntax

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/minio/highwayhash"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes
const headerCacheSchemaVersion uint16 = 1

const (
	headerCacheSubdir = "headers"
	headerCacheFile   = "headers.mp"
)

// fingerprintKey is the fixed 32-byte highwayhash key for content fingerprints.
var fingerprintKey = []byte("syndial-header-cache-fingerprint")

// HeaderCache keeps decoded headers on disk so unchanged definitions are not
// decoded again. Entries are keyed by resource path and validated by a
// fingerprint of the content. Thread-safe for concurrent access.
//
// The cache owns only the "headers" subdirectory of the directory it is
// opened with; nothing else in that directory is ever touched.
type HeaderCache struct {
	mu      sync.RWMutex
	dir     string // <base>/headers
	entries map[string]cacheEntry
	dirty   bool
}

type cacheEntry struct {
	Fingerprint uint64
	Size        uint32
	Name        string
	Scope       string
	Hidden      bool
}

type cachePayload struct {
	Schema  uint16
	Entries map[string]cacheEntry
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// HeaderCacheDir returns the directory the cache under base keeps its files in.
func HeaderCacheDir(base string) string {
	return filepath.Join(base, headerCacheSubdir)
}

// OpenHeaderCache loads the cache stored under base. A missing, unreadable or
// outdated cache file starts an empty cache. Nothing is created until Save.
func OpenHeaderCache(base string) (*HeaderCache, error) {
	c := &HeaderCache{dir: HeaderCacheDir(base), entries: make(map[string]cacheEntry)}

	f, err := os.Open(c.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil || payload.Schema != headerCacheSchemaVersion {
		// stale format: rebuild from scratch
		c.dirty = true
		return c, nil
	}
	if payload.Entries != nil {
		c.entries = payload.Entries
	}
	return c, nil
}

// Dir returns the directory holding the cache file, <base>/headers.
func (c *HeaderCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *HeaderCache) path() string {
	return filepath.Join(c.dir, headerCacheFile)
}

// Lookup returns the cached header of resourcePath if data is unchanged.
func (c *HeaderCache) Lookup(resourcePath string, data []byte) (Syntax, bool) {
	if c == nil {
		return Syntax{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[resourcePath]
	c.mu.RUnlock()
	if !ok {
		return Syntax{}, false
	}
	size, err := safecast.Conv[uint32](len(data))
	if err != nil || entry.Size != size || entry.Fingerprint != fingerprint(data) {
		return Syntax{}, false
	}
	return Syntax{Path: resourcePath, Name: entry.Name, Scope: entry.Scope, Hidden: entry.Hidden}, true
}

// Put records the decoded header of data.
func (c *HeaderCache) Put(syn Syntax, data []byte) {
	if c == nil {
		return
	}
	size, err := safecast.Conv[uint32](len(data))
	if err != nil {
		return // too large to fingerprint compactly; decode every time
	}
	entry := cacheEntry{
		Fingerprint: fingerprint(data),
		Size:        size,
		Name:        syn.Name,
		Scope:       syn.Scope,
		Hidden:      syn.Hidden,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[syn.Path]; ok && old == entry {
		return
	}
	c.entries[syn.Path] = entry
	c.dirty = true
}

// Retain drops entries for resources that no longer exist.
func (c *HeaderCache) Retain(paths map[string]struct{}) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.entries {
		if _, ok := paths[p]; !ok {
			delete(c.entries, p)
			c.dirty = true
		}
	}
}

// Len returns the number of cached headers.
func (c *HeaderCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save writes the cache if it changed since it was opened.
func (c *HeaderCache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	payload := cachePayload{Schema: headerCacheSchemaVersion, Entries: c.entries}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode header cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, c.path()); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Drop forgets every entry and removes the cache's own directory.
func (c *HeaderCache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.dirty = false
	if err := RemoveHeaderCache(filepath.Dir(c.dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveHeaderCache deletes the cache kept under base. Only the fixed
// headers subdirectory is removed, base itself and its other files stay.
// It reports os.ErrNotExist when there is no cache.
func RemoveHeaderCache(base string) error {
	dir := HeaderCacheDir(base)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	return os.RemoveAll(dir)
}

func fingerprint(data []byte) uint64 {
	return highwayhash.Sum64(data, fingerprintKey)
}
