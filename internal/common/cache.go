package common

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache

	mu  sync.Mutex
	gen uint64
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{Cache: cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Delete(key string) {
	c.Cache.Delete(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

// Generation counts the calls to Invalidate. Read it before loading a value that Fill will store.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen
}

// Invalidate removes keys and starts a new generation.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for _, key := range keys {
		c.Cache.Delete(key)
	}
}

// Fill stores value under key unless Invalidate ran since gen was read. A value loaded before a write
// must not outlive it.
func (c *Cache) Fill(gen uint64, key string, value interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)

	return true
}

const (
	CacheKeyToolCategories = "facet:tool_categories"
	CacheKeyPostCategories = "facet:post_categories"
	CacheKeyPostTags       = "facet:post_tags"
)

func CacheKeyUserByAccessToken(token []byte) string {
	return "user_by_access_token:" + string(token)
}
