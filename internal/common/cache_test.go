package common_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mkhairi/backend-quotation/internal/common"
)

type cachedTier struct {
	Tier    string `json:"tier"`
	Default int    `json:"default"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*common.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return common.NewCache(client, ttl), mr
}

func TestCacheMissReturnsFalse(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	var out cachedTier
	hit, err := cache.GetJSON(context.Background(), "tiers:retail", &out)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestCacheSetGetRoundtrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	in := cachedTier{Tier: "retail", Default: 3500}
	require.NoError(t, cache.SetJSON(ctx, "tiers:retail", in))

	var out cachedTier
	hit, err := cache.GetJSON(ctx, "tiers:retail", &out)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, in, out)
}

func TestCacheTTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "tiers:retail", cachedTier{Tier: "retail"}))
	mr.FastForward(2 * time.Minute)

	var out cachedTier
	hit, err := cache.GetJSON(ctx, "tiers:retail", &out)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "tiers:retail", cachedTier{Tier: "retail"}))
	require.NoError(t, cache.Invalidate(ctx, "tiers:retail"))

	var out cachedTier
	hit, err := cache.GetJSON(ctx, "tiers:retail", &out)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestCacheNilClientNoops(t *testing.T) {
	cache := common.NewCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "k", cachedTier{}))
	var out cachedTier
	hit, err := cache.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, hit)
}
