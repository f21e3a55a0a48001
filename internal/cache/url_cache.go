package cache

import (
	"context"
	"fmt"
	"time"
)

// SignedURLCache caches signed image URLs so repeated feed loads do not
// re-sign the same object paths. Entries expire well before the signed URL
// itself does, so a cached URL always has usable lifetime left.
type SignedURLCache struct {
	redis *RedisClient
}

// NewSignedURLCache creates a new SignedURLCache.
func NewSignedURLCache(redis *RedisClient) *SignedURLCache {
	return &SignedURLCache{redis: redis}
}

// key namespaces cached URLs by object path and requested TTL so a short-lived
// request never receives a URL signed for a different window.
func (c *SignedURLCache) key(path string, ttl time.Duration) string {
	return fmt.Sprintf("imgurl:%d:%s", int(ttl.Seconds()), path)
}

// cacheTTL keeps entries for half the signed lifetime.
func (c *SignedURLCache) cacheTTL(signTTL time.Duration) time.Duration {
	return signTTL / 2
}

// Get returns the cached URL for a path, or "" on miss. Cache errors are
// treated as misses; the caller signs again.
func (c *SignedURLCache) Get(ctx context.Context, path string, signTTL time.Duration) string {
	url, err := c.redis.Get(ctx, c.key(path, signTTL))
	if err != nil {
		return ""
	}
	return url
}

// Put stores a signed URL for a path.
func (c *SignedURLCache) Put(ctx context.Context, path string, signTTL time.Duration, url string) error {
	return c.redis.Set(ctx, c.key(path, signTTL), url, c.cacheTTL(signTTL))
}
