package bundle

import (
	"container/list"
	"sync"
)

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// lruCache is a thread-safe LRU cache. When it reaches capacity the least
// recently used item is evicted.
type lruCache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	eviction *list.List
	mu       sync.Mutex
	onEvict  func(key K, value V)
}

func newLRUCache[K comparable, V any](capacity int, onEvict func(K, V)) *lruCache[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
		onEvict:  onEvict,
	}
}

// getOrAdd returns the cached value for key, or stores and returns the
// value produced by create. The bool result reports a cache hit.
func (c *lruCache[K, V]) getOrAdd(key K, create func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}

	value := create()
	c.items[key] = c.eviction.PushFront(&lruEntry[K, V]{key: key, value: value})
	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}
	return value, false
}

// removeIf drops key when match accepts its cached value.
func (c *lruCache[K, V]) removeIf(key K, match func(V) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok || !match(elem.Value.(*lruEntry[K, V]).value) {
		return false
	}
	c.removeElement(elem)
	return true
}

func (c *lruCache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Must be called with lock held.
func (c *lruCache[K, V]) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// Must be called with lock held.
func (c *lruCache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)
	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
