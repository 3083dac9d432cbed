package credential

import (
	"context"
	"sync"
	"time"
)

// Cache wraps a Source with a TTL cache keyed by (user, provider).
// Entries for different users never contend: a refresh for one user
// invalidates only that user's entry. The TTL and clock are injected so
// provisioning runs stay test-isolated.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	token   string
	expires time.Time
}

// NewCache creates a credential cache over source with the given TTL.
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Token returns the cached credential for (user, provider), consulting
// the underlying source when the entry is missing or expired.
func (c *Cache) Token(ctx context.Context, user, provider string) (string, error) {
	key := tokenKey(user, provider)

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if ok && c.now().Before(entry.expires) {
		return entry.token, nil
	}

	token, err := c.source.Token(ctx, user, provider)
	if err != nil {
		return "", err
	}
	c.store(key, token)
	return token, nil
}

// Refresh obtains a fresh credential from the underlying source,
// explicitly invalidating the cached entry first so a refresh failure
// never leaves a known-bad token in the cache.
func (c *Cache) Refresh(ctx context.Context, user, provider string) (string, error) {
	c.Invalidate(user, provider)

	token, err := c.source.Refresh(ctx, user, provider)
	if err != nil {
		return "", err
	}
	c.store(tokenKey(user, provider), token)
	return token, nil
}

// Invalidate drops the cached entry for (user, provider).
func (c *Cache) Invalidate(user, provider string) {
	c.mu.Lock()
	delete(c.entries, tokenKey(user, provider))
	c.mu.Unlock()
}

func (c *Cache) store(key, token string) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{token: token, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
