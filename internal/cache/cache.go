// Package cache provides the dedup cache of notification names already shown.
package cache

import (
	"sort"
	"sync"
)

// Cache is a concurrency-safe set of notification names.
// A name stays in the cache until it is removed or the cache is cleared,
// regardless of whether its notification is still on screen.
type Cache struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// New creates an empty cache with a lifetime controlled by the caller.
func New() *Cache {
	return &Cache{
		names: make(map[string]struct{}),
	}
}

var (
	sharedOnce sync.Once
	shared     *Cache
)

// Shared returns the process-wide cache.
func Shared() *Cache {
	sharedOnce.Do(func() {
		shared = New()
	})
	return shared
}

// Has reports whether name has been added and not cleared since.
func (c *Cache) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.names[name]
	return ok
}

// Add records name. Adding a name twice is a no-op.
func (c *Cache) Add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[name] = struct{}{}
}

// Remove forgets a single name so it can be shown again.
func (c *Cache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.names, name)
}

// Clear forgets every name.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = make(map[string]struct{})
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// Names returns the cached names in sorted order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.names))
	for name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
