package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache wraps go-cache for in-process caching
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache with the given default TTL.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, 10*time.Minute),
	}
}

func (m *MemoryCache) Get(key string) ([]byte, bool) {
	if v, found := m.cache.Get(key); found {
		if b, ok := v.([]byte); ok {
			return b, true
		}
	}
	return nil, false
}

func (m *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *MemoryCache) Clear() error {
	m.cache.Flush()
	return nil
}
