package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/cache"
	"github.com/jhoicas/vortex-catalogo/pkg/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisCache) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c, err := cache.NewRedisCache(context.Background(), config.RedisConfig{Addr: s.Addr()}, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return s, c
}

func TestRedisCache_GetSet(t *testing.T) {
	s, c := newRedis(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx, ports.CacheKeyProducts)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, ports.CacheKeyProducts, []byte(`[1]`), 0))
	got, found, err := c.Get(ctx, ports.CacheKeyProducts)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[1]`, string(got))
	assert.Equal(t, time.Minute, s.TTL(ports.CacheKeyProducts))

	s.FastForward(2 * time.Minute)
	_, found, err = c.Get(ctx, ports.CacheKeyProducts)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	s, c := newRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, ports.CacheKeyProducts, []byte("a"), 0))
	require.NoError(t, c.Set(ctx, ports.CacheKeyProduct("7"), []byte("b"), 0))
	require.NoError(t, c.Set(ctx, ports.CacheKeyOrders, []byte("c"), 0))

	require.NoError(t, c.DeleteByPrefix(ctx, ports.CachePrefixProducts))
	assert.False(t, s.Exists(ports.CacheKeyProducts))
	assert.False(t, s.Exists(ports.CacheKeyProduct("7")))
	assert.True(t, s.Exists(ports.CacheKeyOrders))
}

func TestNewRedisCache_SinServidor(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	_, err = cache.NewRedisCache(context.Background(), config.RedisConfig{Addr: addr}, time.Minute)
	assert.Error(t, err)
}

func TestMemoryCache_Expiracion(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewMemoryCache(time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v", string(got))

	now = now.Add(time.Minute)
	_, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_DevuelveCopia(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("abc"), 0))

	got, _, _ := c.Get(ctx, "k")
	got[0] = 'X'
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestInvalidator_BorraPorColeccion(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	ctx := context.Background()
	for _, key := range []string{
		ports.CacheKeyProducts, ports.CacheKeyProduct("1"),
		ports.CacheKeyOrders, ports.CacheKeyOrder("2"),
		ports.CacheKeyUsers,
	} {
		require.NoError(t, c.Set(ctx, key, []byte("x"), 0))
	}

	inv := cache.NewInvalidator(c)
	require.NoError(t, inv.Invalidate(ctx, repository.CollectionOrders))

	_, found, _ := c.Get(ctx, ports.CacheKeyOrders)
	assert.False(t, found)
	_, found, _ = c.Get(ctx, ports.CacheKeyOrder("2"))
	assert.False(t, found)
	_, found, _ = c.Get(ctx, ports.CacheKeyProducts)
	assert.True(t, found)
	_, found, _ = c.Get(ctx, ports.CacheKeyUsers)
	assert.True(t, found)

	assert.Error(t, inv.Invalidate(ctx, repository.Collection("otra")))
}
