// ABOUTME: Thread-safe, size-limited response cache for the offline layer.
// ABOUTME: Insertion-order eviction via a doubly-linked list for O(1) drops.

package offline

import (
	"container/list"
	"sync"
)

// Resource is a cached (or freshly fetched) response body.
type Resource struct {
	Path        string
	Body        []byte
	ContentType string
	StatusCode  int
	FromCache   bool
}

// cacheEntry pairs a stored resource with its position in insertion order.
type cacheEntry struct {
	resource Resource
	element  *list.Element
}

// Cache is a thread-safe response cache keyed by request path. When full,
// the oldest entry is evicted to make room; refreshing an existing entry
// moves it to the back.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   *list.List // paths in insertion order (oldest at front)
	maxSize int
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		maxSize: maxSize,
	}
}

// Get returns the cached resource for path, if present.
func (c *Cache) Get(path string) (Resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[path]
	if !ok {
		return Resource{}, false
	}
	r := entry.resource
	r.FromCache = true
	return r, true
}

// Put stores a resource under its path, evicting the oldest entry when the
// cache is at capacity.
func (c *Cache) Put(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[r.Path]; exists {
		entry.resource = r
		c.order.MoveToBack(entry.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(r.Path)
	c.entries[r.Path] = &cacheEntry{resource: r, element: elem}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	path, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, path)
}
