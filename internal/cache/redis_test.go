package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtag/qrtag-api/internal/cache"
	"github.com/qrtag/qrtag-api/internal/config"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	return cache.NewRedisCache(cfg), mr
}

func TestAllowUpdateFixedWindow(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	for i := 0; i < 3; i++ {
		ok, err := c.AllowUpdate(ctx, 7, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, err := c.AllowUpdate(ctx, 7, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// a different user has their own window
	ok, err = c.AllowUpdate(ctx, 8, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// the window expires and the counter resets
	mr.FastForward(2 * time.Minute)
	ok, err = c.AllowUpdate(ctx, 7, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenIsOneShot(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)

	require.NoError(t, c.StoreToken(ctx, "password_reset", "tok-1", 42, time.Minute))

	userID, ok, err := c.ConsumeToken(ctx, "password_reset", "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), userID)

	// consumed tokens are gone
	_, ok, err = c.ConsumeToken(ctx, "password_reset", "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, c.StoreToken(ctx, "activation", "tok-2", 42, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.ConsumeToken(ctx, "activation", "tok-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
