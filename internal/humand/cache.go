package humand

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the injectable response cache. Tests substitute NopCache or a
// deterministic fake; production uses the TTL cache.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Clear()
}

// NopCache stores nothing.
type NopCache struct{}

func (NopCache) Get(string) (any, bool) { return nil, false }
func (NopCache) Set(string, any)        {}
func (NopCache) Clear()                 {}

// TTLCache expires entries after the configured duration.
type TTLCache struct {
	c *gocache.Cache
}

func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{c: gocache.New(ttl, 2*ttl)}
}

func (t *TTLCache) Get(key string) (any, bool) { return t.c.Get(key) }
func (t *TTLCache) Set(key string, value any)  { t.c.Set(key, value, gocache.DefaultExpiration) }
func (t *TTLCache) Clear()                     { t.c.Flush() }
