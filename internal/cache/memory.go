package cache

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is the in-process fallback used when Redis is unreachable
// at startup. Values are stored JSON-encoded so Get behaves identically
// to the Redis implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	hits    uint64
	misses  uint64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*memoryEntry)}
}

func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := &memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Get(key string, dest interface{}) error {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && entry.expired(time.Now()) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		c.mu.Unlock()
		return ErrCacheMiss
	}
	c.hits++
	data := entry.data
	c.mu.Unlock()

	return json.Unmarshal(data, dest)
}

func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) DeletePattern(pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if matched, _ := filepath.Match(pattern, key); matched {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryCache) Exists(key string) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || entry.expired(time.Now()) {
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]interface{}{
		"backend": "memory",
		"entries": len(c.entries),
		"hits":    c.hits,
		"misses":  c.misses,
	}
}

func (c *MemoryCache) Health() error {
	return nil
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]*memoryEntry)
	c.mu.Unlock()
	return nil
}
