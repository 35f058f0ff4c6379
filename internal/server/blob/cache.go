package blob

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	urlCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "berkas_url_cache_hits_total",
		Help: "Number of presigned download URLs served from the cache.",
	})
	urlCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "berkas_url_cache_misses_total",
		Help: "Number of presigned download URL cache misses.",
	})
)

// CachedStore wraps a Store with a TTL'd LRU cache of presigned download
// URLs keyed by storage key. Listing a folder annotates every row with a
// download URL, so repeated listings would otherwise presign the same
// keys over and over. The TTL must stay well below the presign expiry or
// cached URLs outlive their validity.
type CachedStore struct {
	inner Store
	cache *expirable.LRU[string, string]
}

// NewCachedStore builds a CachedStore holding at most size URLs for ttl.
func NewCachedStore(inner Store, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// PresignUpload is a passthrough; upload URLs are single-use.
func (c *CachedStore) PresignUpload(ctx context.Context) (string, string, error) {
	return c.inner.PresignUpload(ctx)
}

func (c *CachedStore) PresignDownload(ctx context.Context, key string) (string, error) {
	if url, ok := c.cache.Get(key); ok {
		urlCacheHitsTotal.Inc()
		return url, nil
	}
	urlCacheMissesTotal.Inc()

	url, err := c.inner.PresignDownload(ctx, key)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, url)
	return url, nil
}

// Delete invalidates the cached URL before removing the object.
func (c *CachedStore) Delete(ctx context.Context, key string) error {
	c.cache.Remove(key)
	return c.inner.Delete(ctx, key)
}
