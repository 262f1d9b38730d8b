package memo

import (
	"sync"
)

// Cache memoizes values by key and is safe for concurrent use. Concurrent
// misses on one key may compute the value more than once; the first value
// stored wins and every caller gets it.
type Cache[K comparable, V any] struct {
	data sync.Map
}

func New[K comparable, V any]() *Cache[K, V] {
	var c Cache[K, V]
	return &c
}

// Get returns the value stored under key, computing it with fn on a miss.
// Errors are returned as is and nothing is stored.
func (c *Cache[K, V]) Get(key K, fn func() (V, error)) (V, error) {
	if v, ok := c.data.Load(key); ok {
		return v.(V), nil
	}
	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	actual, _ := c.data.LoadOrStore(key, v)
	return actual.(V), nil
}

func (c *Cache[K, V]) Len() int {
	n := 0
	c.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
