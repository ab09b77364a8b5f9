package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds records for the current run only
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache expires records after ttl and sweeps them every sweep
func NewMemoryCache(ttl, sweep time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, sweep)}
}

// Get returns a live record
func (m *MemoryCache) Get(key string) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	record, ok := v.([]byte)
	return record, ok
}

// Set stores a record; ttl 0 means the cache-wide expiry
func (m *MemoryCache) Set(key string, record []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.items.Set(key, record, ttl)
	return nil
}

// Delete removes a record
func (m *MemoryCache) Delete(key string) error {
	m.items.Delete(key)
	return nil
}

// Clear removes every record
func (m *MemoryCache) Clear() error {
	m.items.Flush()
	return nil
}

// Len counts stored records, including expired ones not yet swept
func (m *MemoryCache) Len() int {
	return m.items.ItemCount()
}
