package inject

import (
	"sync"
)

// cacheEntry is an explicit resolved marker, so that a provider that
// produced nil is still distinguished from one that never ran.
type cacheEntry struct {
	value any
}

// instanceCache provides thread-safe caching for instances keyed by Key.ID.
type instanceCache struct {
	instances map[int]cacheEntry
	mu        sync.RWMutex
}

// newInstanceCache creates a new instance cache
func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[int]cacheEntry),
	}
}

// get retrieves an instance; ok is false if the key was never resolved.
func (c *instanceCache) get(id int) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.instances[id]
	return entry.value, ok
}

// set stores an instance. The first stored value for an id wins.
func (c *instanceCache) set(id int, instance any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.instances[id]; ok {
		return entry.value
	}
	c.instances[id] = cacheEntry{value: instance}
	return instance
}

// len returns the number of resolved keys.
func (c *instanceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}
