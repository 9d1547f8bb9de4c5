package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisinfra "github.com/flashboard/board-service/internal/infrastructure/redis"
)

func newCache(t *testing.T) (*redisinfra.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisinfra.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestAllowRequest_FixedWindow(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := c.AllowRequest(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := c.AllowRequest(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different client has its own window.
	allowed, err = c.AllowRequest(ctx, "10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Window expiry resets the counter.
	mr.FastForward(2 * time.Minute)
	allowed, err = c.AllowRequest(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowRequest_FailsOpenWhenRedisDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	allowed, err := c.AllowRequest(context.Background(), "10.0.0.1", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}
