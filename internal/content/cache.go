package content

import (
	"sync"

	"summerlit/internal/models"
)

// Cache holds loaded day packs per student prefix for the lifetime of a
// login session. It is owned by the shell and injected where needed; the
// loader itself never assumes caching exists.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	days  []string
	packs map[string]*models.DayPack
}

// NewCache creates an empty day-pack cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached days and packs for a student prefix.
func (c *Cache) Get(studentPrefix string) ([]string, map[string]*models.DayPack, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[studentPrefix]
	return entry.days, entry.packs, ok
}

// Set stores the loaded days and packs for a student prefix.
func (c *Cache) Set(studentPrefix string, days []string, packs map[string]*models.DayPack) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[studentPrefix] = cacheEntry{days: days, packs: packs}
}

// Invalidate drops the cached content for a student prefix.
func (c *Cache) Invalidate(studentPrefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, studentPrefix)
}
