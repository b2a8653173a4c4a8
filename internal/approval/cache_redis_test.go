package approval

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCachePrefix = "approval:control:"

func newTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:      []string{mr.Addr()},
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisControlCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	cache := NewRedisControlCache(client, testCachePrefix, time.Minute)

	_, ok := cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)

	cache.Set(ctx, 1, "purchase.order", NewControlSnapshot(gatedControl()))
	key := testCachePrefix + cacheKey(1, "purchase.order")
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	snap, ok := cache.Get(ctx, 1, "purchase.order")
	require.True(t, ok)
	assert.True(t, snap.Governed)
	assert.Equal(t, "c1", snap.ControlID)
	assert.True(t, snap.Disabled(PhaseStart, "button_confirm"))
	assert.True(t, snap.Disabled(PhaseRefuse, "button_done"))
	assert.False(t, snap.Disabled(PhasePending, "button_confirm"))

	// 负缓存
	cache.Set(ctx, 2, "purchase.order", NewControlSnapshot(nil))
	snap, ok = cache.Get(ctx, 2, "purchase.order")
	require.True(t, ok)
	assert.False(t, snap.Governed)

	cache.Invalidate(ctx, 1, "purchase.order")
	assert.False(t, mr.Exists(key))
	_, ok = cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)

	// 过期后未命中
	cache.Set(ctx, 1, "purchase.order", NewControlSnapshot(gatedControl()))
	mr.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)
}

func TestRedisControlCacheZeroTTLSkipsWrite(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewRedisControlCache(client, testCachePrefix, 0)

	cache.Set(context.Background(), 1, "purchase.order", NewControlSnapshot(gatedControl()))
	assert.Empty(t, mr.Keys())
}

func TestRedisControlCacheCorruptPayloadIsMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewRedisControlCache(client, testCachePrefix, time.Minute)

	require.NoError(t, mr.Set(testCachePrefix+cacheKey(1, "purchase.order"), "{not json"))
	_, ok := cache.Get(context.Background(), 1, "purchase.order")
	assert.False(t, ok)
}

func TestGateFallsBackToStoreWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	cache := NewRedisControlCache(client, testCachePrefix, time.Minute)
	finder := &countingFinder{control: gatedControl()}
	loader := &fakeLoader{states: map[int64]*RecordState{1: {ApprovalState: StateDraft}}}
	gate := NewGate(finder, loader, WithCache(cache))

	require.ErrorIs(t, gate.CheckAction(ctx, 1, "purchase.order", 1, "button_confirm"), ErrActionDenied)
	require.ErrorIs(t, gate.CheckAction(ctx, 1, "purchase.order", 1, "button_confirm"), ErrActionDenied)
	assert.Equal(t, 1, finder.calls)

	mr.Close()

	// Redis 不可用时每次回源查询，校验结果不变
	assert.ErrorIs(t, gate.CheckAction(ctx, 1, "purchase.order", 1, "button_confirm"), ErrActionDenied)
	assert.NoError(t, gate.CheckAction(ctx, 1, "purchase.order", 1, "button_cancel"))
	assert.Equal(t, 3, finder.calls)
}
