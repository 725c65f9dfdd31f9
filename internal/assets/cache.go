package assets

// Cache is a keyed cache with hit/miss counters. It is not safe for
// concurrent use; loading runs on the frame goroutine.
type Cache[V any] struct {
	data map[string]V

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{
		data: make(map[string]V),
	}
}

// Get retrieves an item from cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[V]) Set(key string, v V) {
	c.data[key] = v
}

// Len returns the number of cached items.
func (c *Cache[V]) Len() int {
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() (hits, misses int) {
	return c.hits, c.misses
}
