package enrichment

import (
	"context"
	"sync"
	"time"

	"solana-wallet-alerts/internal/classify"
	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/observability"
)

// DefaultTokenCacheTTL bounds how stale displayed token metadata can be.
const DefaultTokenCacheTTL = 60 * time.Second

type cacheEntry struct {
	info      *domain.TokenInfo
	expiresAt time.Time
}

// TokenCache wraps a TokenInfoProvider with a TTL cache. Only successful
// lookups are cached; failures stay uncached so the next event retries.
type TokenCache struct {
	inner   classify.TokenInfoProvider
	ttl     time.Duration
	now     func() time.Time
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// CacheOption configures TokenCache.
type CacheOption func(*TokenCache)

// WithCacheTTL sets the entry lifetime.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *TokenCache) {
		c.ttl = ttl
	}
}

// WithCacheClock sets the time source, for tests.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *TokenCache) {
		c.now = now
	}
}

// WithCacheMetrics records hit/miss counters.
func WithCacheMetrics(m *observability.Metrics) CacheOption {
	return func(c *TokenCache) {
		c.metrics = m
	}
}

// NewTokenCache creates a TokenCache around the given provider.
func NewTokenCache(inner classify.TokenInfoProvider, opts ...CacheOption) *TokenCache {
	c := &TokenCache{
		inner:   inner,
		ttl:     DefaultTokenCacheTTL,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ classify.TokenInfoProvider = (*TokenCache)(nil)

// TokenInfo returns the cached metadata for a mint, refreshing it from the
// inner provider when missing or expired.
func (c *TokenCache) TokenInfo(ctx context.Context, mint string) (*domain.TokenInfo, error) {
	c.mu.Lock()
	entry, ok := c.entries[mint]
	c.mu.Unlock()

	if ok && c.now().Before(entry.expiresAt) {
		if c.metrics != nil {
			c.metrics.TokenCacheHits.Inc()
		}
		cp := *entry.info
		return &cp, nil
	}
	if c.metrics != nil {
		c.metrics.TokenCacheMiss.Inc()
	}

	info, err := c.inner.TokenInfo(ctx, mint)
	if err != nil || info == nil {
		return info, err
	}

	c.mu.Lock()
	cp := *info
	c.entries[mint] = cacheEntry{info: &cp, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return info, nil
}

// Invalidate drops the cached entry for a mint.
func (c *TokenCache) Invalidate(mint string) {
	c.mu.Lock()
	delete(c.entries, mint)
	c.mu.Unlock()
}
