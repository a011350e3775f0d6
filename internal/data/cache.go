package data

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"portfolio-sim/internal/model"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL'd in-memory cache. It is advisory everywhere it is used: a
// miss or an expired entry simply triggers recomputation or a refetch.
type Cache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

// NewCache creates a cache with the given entry lifetime and starts a
// background sweep of expired entries.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
	}
	go c.cleanup()
	return c
}

// Get retrieves a cached value if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set stores a value under the key.
func (c *Cache) Set(key string, value any) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

// GetAccount and SetAccount let a Cache serve as the simulators' account
// memoization store.
func (c *Cache) GetAccount(key string) (*model.Account, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	acct, ok := v.(*model.Account)
	return acct, ok
}

func (c *Cache) SetAccount(key string, acct *model.Account) {
	c.Set(key, acct)
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.expiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheKey builds a deterministic key from its parts, hashed to keep it a
// reasonable size.
func CacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}
