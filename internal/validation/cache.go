package validation

import (
	"context"
	"sync"
)

// Cache memoizes validation results per unique (email, phone) pair. It is
// an explicit object owned by the caller and passed into each aggregation
// batch; results are immutable once stored, so concurrent readers only
// contend on the map lock.
type Cache struct {
	mu    sync.RWMutex
	inner Validator
	seen  map[string]Result
}

// NewCache wraps a validator with a per-batch result cache.
func NewCache(inner Validator) *Cache {
	return &Cache{
		inner: inner,
		seen:  make(map[string]Result),
	}
}

// Validate returns the cached result for the pair when present, otherwise
// delegates and stores. Errors are never cached.
func (c *Cache) Validate(ctx context.Context, email, phone, countryCode string) (Result, error) {
	key := email + "\x00" + phone + "\x00" + countryCode

	c.mu.RLock()
	res, ok := c.seen[key]
	c.mu.RUnlock()
	if ok {
		return res, nil
	}

	res, err := c.inner.Validate(ctx, email, phone, countryCode)
	if err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	c.seen[key] = res
	c.mu.Unlock()
	return res, nil
}

// Len reports how many unique pairs have been validated.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seen)
}
