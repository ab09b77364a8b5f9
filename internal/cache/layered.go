package cache

import (
	"errors"
	"time"
)

const memorySweep = 10 * time.Minute

// LayeredCache puts a per-run memory tier in front of the on-disk store.
// Records read from disk are copied up so repeated lookups in one run stay
// off the filesystem.
type LayeredCache struct {
	tiers []Cache
}

// NewLayeredCache creates a memory tier over a disk tier in dir
func NewLayeredCache(memoryTTL time.Duration, dir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{tiers: []Cache{
		NewMemoryCache(memoryTTL, memorySweep),
		NewDiskCache(dir, diskTTL),
	}}
}

// Get returns the first tier hit and copies it into the tiers above
func (l *LayeredCache) Get(key string) ([]byte, bool) {
	for i, tier := range l.tiers {
		record, ok := tier.Get(key)
		if !ok {
			continue
		}
		for _, upper := range l.tiers[:i] {
			_ = upper.Set(key, record, 0)
		}
		return record, true
	}
	return nil, false
}

// Set stores a record in every tier
func (l *LayeredCache) Set(key string, record []byte, ttl time.Duration) error {
	for _, tier := range l.tiers {
		if err := tier.Set(key, record, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a record from every tier
func (l *LayeredCache) Delete(key string) error {
	var errs []error
	for _, tier := range l.tiers {
		errs = append(errs, tier.Delete(key))
	}
	return errors.Join(errs...)
}

// Clear empties every tier
func (l *LayeredCache) Clear() error {
	var errs []error
	for _, tier := range l.tiers {
		errs = append(errs, tier.Clear())
	}
	return errors.Join(errs...)
}
