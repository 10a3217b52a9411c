package tenant_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-io/storekit/pkg/tenant"
)

func TestCachedDirectory(t *testing.T) {
	t.Parallel()

	t.Run("caches hits", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		source := tenant.DirectoryFunc(func(ctx context.Context, id string) (*tenant.Info, error) {
			calls.Add(1)
			return &tenant.Info{ID: id, Active: true}, nil
		})

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()
		dir := tenant.NewCachedDirectory(source, cache, time.Minute)

		for range 5 {
			info, err := dir.Lookup(context.Background(), "acme-corp")
			require.NoError(t, err)
			require.Equal(t, "acme-corp", info.ID)
		}
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("misses are not cached", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		source := tenant.DirectoryFunc(func(ctx context.Context, id string) (*tenant.Info, error) {
			calls.Add(1)
			return nil, tenant.ErrUnknownTenant
		})

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()
		dir := tenant.NewCachedDirectory(source, cache, time.Minute)

		for range 3 {
			_, err := dir.Lookup(context.Background(), "ghost-store")
			require.ErrorIs(t, err, tenant.ErrUnknownTenant)
		}
		assert.EqualValues(t, 3, calls.Load(), "a tenant created moments later must be found")
	})
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()

		cache.Set(ctx, "acme-corp", &tenant.Info{ID: "acme-corp", Active: true}, time.Minute)
		info, ok := cache.Get(ctx, "acme-corp")
		require.True(t, ok)
		assert.Equal(t, "acme-corp", info.ID)

		cache.Delete(ctx, "acme-corp")
		_, ok = cache.Get(ctx, "acme-corp")
		assert.False(t, ok)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()

		cache.Set(ctx, "acme-corp", &tenant.Info{ID: "acme-corp"}, 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)

		_, ok := cache.Get(ctx, "acme-corp")
		assert.False(t, ok)
	})

	t.Run("evicts entry closest to expiry when full", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(2)
		defer cache.Close()

		cache.Set(ctx, "short", &tenant.Info{ID: "short"}, time.Minute)
		cache.Set(ctx, "long", &tenant.Info{ID: "long"}, time.Hour)
		cache.Set(ctx, "new", &tenant.Info{ID: "new"}, time.Hour)

		_, ok := cache.Get(ctx, "short")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "long")
		assert.True(t, ok)
		_, ok = cache.Get(ctx, "new")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(10)
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := tenant.NewNoopCache()

	cache.Set(ctx, "acme-corp", &tenant.Info{ID: "acme-corp"}, time.Minute)
	_, ok := cache.Get(ctx, "acme-corp")
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}
