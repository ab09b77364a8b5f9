// Package cache stores API records between runs, in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key for one record, e.g. Key("company", urn)
func Key(kind, id string) string {
	hash := sha256.Sum256([]byte(kind + "\x00" + id))
	return "dealflow:v1:" + kind + ":" + hex.EncodeToString(hash[:16])
}

// GetJSON decodes a cached value into out. A corrupt entry counts as a miss.
func GetJSON(c Cache, key string, out any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON encodes v and stores it
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}
