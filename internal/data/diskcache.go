package data

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// DiskCache persists fetched series as pretty-printed JSON files so repeated
// simulations over the same range never re-hit the upstream APIs. A file that
// fails to decode is treated as a cache miss: it is deleted and the caller
// refetches.
type DiskCache struct {
	Dir string
}

func NewDiskCache(dir string) *DiskCache {
	return &DiskCache{Dir: dir}
}

func (d *DiskCache) path(name string) string {
	return filepath.Join(d.Dir, name+".json")
}

// Load reads a cached artifact into v. Returns false on miss, including the
// corrupt-file case.
func (d *DiskCache) Load(name string, v any) bool {
	if d == nil || d.Dir == "" {
		return false
	}
	path := d.path(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("[DiskCache] corrupt cache file %s, purging: %v", path, err)
		os.Remove(path)
		return false
	}
	return true
}

// Store writes an artifact, creating the cache directory as needed. Indented
// output keeps the cache files inspectable by hand.
func (d *DiskCache) Store(name string, v any) error {
	if d == nil || d.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(d.path(name), raw, 0o644)
}

// Purge deletes the cache directory and everything in it.
func (d *DiskCache) Purge() error {
	if d == nil || d.Dir == "" {
		return nil
	}
	return os.RemoveAll(d.Dir)
}
