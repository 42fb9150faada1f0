package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/internal/logger"
	"github.com/gcbaptista/go-product-search/internal/metrics"
	"github.com/gcbaptista/go-product-search/model"
)

// CachedSource keeps the last snapshot of an upstream source for a TTL.
// When a refresh fails and a previous snapshot exists, the stale snapshot is
// served instead of the error.
type CachedSource struct {
	upstream Source
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	products  []model.Product
	fetchedAt time.Time
	loaded    bool
}

// NewCachedSource wraps upstream with a TTL cache.
func NewCachedSource(upstream Source, ttl time.Duration, log *zap.Logger) *CachedSource {
	return &CachedSource{
		upstream: upstream,
		ttl:      ttl,
		logger:   logger.OrNop(log),
		now:      time.Now,
	}
}

// Products returns a copy of the cached snapshot, refreshing it when expired.
func (c *CachedSource) Products(ctx context.Context) ([]model.Product, error) {
	if products, ok := c.fresh(); ok {
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return products, nil
	}
	metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()

	products, err := c.upstream.Products(ctx)
	if err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if !c.loaded {
			return nil, err
		}
		metrics.CatalogFetchesTotal.WithLabelValues("cache", "stale").Inc()
		c.logger.Warn("serving stale catalog",
			zap.Time("fetched_at", c.fetchedAt),
			zap.Int("products", len(c.products)),
			zap.Error(err),
		)
		return cloneProducts(c.products), nil
	}

	c.mu.Lock()
	c.products = cloneProducts(products)
	c.fetchedAt = c.now()
	c.loaded = true
	c.mu.Unlock()

	return products, nil
}

// Refresh fetches a new snapshot from upstream regardless of its age and
// returns its size. On failure the previous snapshot is kept.
func (c *CachedSource) Refresh(ctx context.Context) (int, error) {
	products, err := c.upstream.Products(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.products = cloneProducts(products)
	c.fetchedAt = c.now()
	c.loaded = true
	c.mu.Unlock()

	c.logger.Info("catalog refreshed", zap.Int("products", len(products)))
	return len(products), nil
}

// Invalidate drops the cached snapshot so the next call refreshes it.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
	c.loaded = false
	c.products = nil
}

func (c *CachedSource) fresh() ([]model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return cloneProducts(c.products), true
}
