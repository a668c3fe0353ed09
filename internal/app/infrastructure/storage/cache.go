package storage

import (
	"github.com/maypok86/otter/v2"
	"time"
)

// Cache - обёртка над otter. ttl > 0 - запись удаляется после ttl без обращений,
// capacity > 0 - ограничение размера, иначе кэш растёт до рестарта процесса.
type Cache[K comparable, V any] struct {
	outer *otter.Cache[K, V]

	onEvict     func(key K, val V)
	expireWrite bool
}

type Option[K comparable, V any] func(c *Cache[K, V])

// WithWriteExpiry - ttl отсчитывается от записи, чтения его не продлевают.
func WithWriteExpiry[K comparable, V any]() Option[K, V] {
	return func(c *Cache[K, V]) {
		c.expireWrite = true
	}
}

// WithEvictionHook вызывается, когда запись ушла по ttl или по размеру (не при ClearKey).
func WithEvictionHook[K comparable, V any](fn func(key K, val V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = fn
	}
}

func NewCache[K comparable, V any](capacity int, ttl time.Duration, opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{}
	for _, opt := range opts {
		opt(c)
	}

	o := &otter.Options[K, V]{
		OnDeletion: func(e otter.DeletionEvent[K, V]) {
			if e.WasEvicted() && c.onEvict != nil {
				c.onEvict(e.Key, e.Value)
			}
		},
	}
	if capacity > 0 {
		o.MaximumSize = capacity
	}
	switch {
	case ttl > 0 && c.expireWrite:
		o.ExpiryCalculator = otter.ExpiryWriting[K, V](ttl)
	case ttl > 0:
		o.ExpiryCalculator = otter.ExpiryAccessing[K, V](ttl)
	}
	c.outer = otter.Must(o)

	return c
}

func (c *Cache[K, V]) Set(key K, val V) {
	c.outer.Set(key, val)
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.outer.GetIfPresent(key)
}

func (c *Cache[K, V]) ClearKey(key K) {
	c.outer.Invalidate(key)
}

func (c *Cache[K, V]) Len() int {
	return c.outer.EstimatedSize()
}
