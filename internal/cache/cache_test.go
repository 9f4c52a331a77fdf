package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	c := &FakeCache{}
	require.Panics(t, func() { c.Get(context.Background(), "k") })
	require.Panics(t, func() { c.Set(context.Background(), "k", 1, 0) })
	require.Panics(t, func() { c.Del(context.Background(), "k") })
	require.NoError(t, c.Close())

	gCalled := false
	sCalled := false
	dCalled := false
	clCalled := false
	c.GetFn = func(ctx context.Context, key string) *redis.StringCmd {
		gCalled = true
		return redis.NewStringResult("v", nil)
	}
	c.SetFn = func(ctx context.Context, key string, val any, exp time.Duration) *redis.StatusCmd {
		sCalled = true
		return redis.NewStatusResult("OK", nil)
	}
	c.DelFn = func(ctx context.Context, keys ...string) *redis.IntCmd {
		dCalled = true
		return redis.NewIntResult(int64(len(keys)), nil)
	}
	c.CloseFn = func() error { clCalled = true; return errors.New("close") }

	require.Equal(t, "v", c.Get(context.Background(), "k").Val())
	require.Equal(t, "OK", c.Set(context.Background(), "k", 1, 0).Val())
	require.Equal(t, int64(2), c.Del(context.Background(), "a", "b").Val())
	require.EqualError(t, c.Close(), "close")
	require.True(t, gCalled)
	require.True(t, sCalled)
	require.True(t, dCalled)
	require.True(t, clCalled)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	_, err := m.Get(ctx, "cart:1").Result()
	require.ErrorIs(t, err, redis.Nil)

	require.NoError(t, m.Set(ctx, "cart:1", []byte(`[]`), time.Hour).Err())
	require.Equal(t, "[]", m.Get(ctx, "cart:1").Val())

	require.NoError(t, m.Set(ctx, "s", "str", 0).Err())
	require.Error(t, m.Set(ctx, "n", 42, 0).Err())

	require.Equal(t, int64(1), m.Del(ctx, "cart:1", "missing").Val())
	require.NoError(t, m.Close())
}
