package validation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingValidator tracks delegate calls.
type countingValidator struct {
	calls atomic.Int64
	err   error
}

func (c *countingValidator) Validate(ctx context.Context, email, phone, countryCode string) (Result, error) {
	c.calls.Add(1)
	if c.err != nil {
		return Result{}, c.err
	}
	return Result{Email: &ChannelResult{Status: StatusDeliverable, Confidence: 0.85}}, nil
}

func TestCacheMemoizes(t *testing.T) {
	inner := &countingValidator{}
	cache := NewCache(inner)

	for i := 0; i < 5; i++ {
		res, err := cache.Validate(context.Background(), "a@x.co.za", "0115550100", "ZA")
		require.NoError(t, err)
		require.NotNil(t, res.Email)
	}
	assert.Equal(t, int64(1), inner.calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestCacheKeyIncludesAllInputs(t *testing.T) {
	inner := &countingValidator{}
	cache := NewCache(inner)

	pairs := [][3]string{
		{"a@x.co.za", "0115550100", "ZA"},
		{"a@x.co.za", "0115550101", "ZA"},
		{"b@x.co.za", "0115550100", "ZA"},
		{"a@x.co.za", "0115550100", "GB"},
	}
	for _, p := range pairs {
		_, err := cache.Validate(context.Background(), p[0], p[1], p[2])
		require.NoError(t, err)
	}
	assert.Equal(t, int64(4), inner.calls.Load())
	assert.Equal(t, 4, cache.Len())
}

func TestCacheNeverCachesErrors(t *testing.T) {
	inner := &countingValidator{err: assert.AnError}
	cache := NewCache(inner)

	for i := 0; i < 3; i++ {
		_, err := cache.Validate(context.Background(), "a@x.co.za", "", "ZA")
		require.Error(t, err)
	}
	assert.Equal(t, int64(3), inner.calls.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	inner := &countingValidator{}
	cache := NewCache(inner)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := cache.Validate(context.Background(), "a@x.co.za", "0115550100", "ZA")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// At least one call hit the delegate; duplicates from racing goroutines
	// are tolerated, the cached result is identical either way.
	assert.GreaterOrEqual(t, inner.calls.Load(), int64(1))
	assert.Equal(t, 1, cache.Len())
}
