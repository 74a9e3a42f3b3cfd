package cache

import "time"

// LayeredCache combines a fast memory layer with a persistent disk
// layer. Reads check memory first and promote disk hits; writes go to
// both layers.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a layered cache over the two layers.
func NewLayeredCache(memory, disk Cache) *LayeredCache {
	return &LayeredCache{memory: memory, disk: disk}
}

func (l *LayeredCache) Get(key string) ([]byte, bool) {
	if v, ok := l.memory.Get(key); ok {
		return v, true
	}
	if v, ok := l.disk.Get(key); ok {
		_ = l.memory.Set(key, v, 0)
		return v, true
	}
	return nil, false
}

func (l *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, value, ttl)
}

func (l *LayeredCache) Delete(key string) error {
	if err := l.memory.Delete(key); err != nil {
		return err
	}
	return l.disk.Delete(key)
}

func (l *LayeredCache) Clear() error {
	if err := l.memory.Clear(); err != nil {
		return err
	}
	return l.disk.Clear()
}
