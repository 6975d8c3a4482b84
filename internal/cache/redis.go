package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qrtag/qrtag-api/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil // cache miss
	}
	return val, err
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// --- update throttle (fixed window, PUT/PATCH only) ---

// KeyForUpdateThrottle generates the fixed-window counter key for a
// user's update requests.
func (c *RedisCache) KeyForUpdateThrottle(userID uint64) string {
	return fmt.Sprintf("throttle:update:%d", userID)
}

// AllowUpdate counts an update request against the user's window and
// reports whether it is within the limit. The window starts on the
// first request and expires after ttl.
func (c *RedisCache) AllowUpdate(ctx context.Context, userID uint64, limit int, ttl time.Duration) (bool, error) {
	key := c.KeyForUpdateThrottle(userID)

	n, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		_ = c.Client.Expire(ctx, key, ttl).Err()
	}
	return n <= int64(limit), nil
}

// --- one-shot tokens (password reset / account activation) ---

func keyForToken(purpose, token string) string {
	return fmt.Sprintf("token:%s:%s", purpose, token)
}

// StoreToken binds an opaque token to a user for ttl.
func (c *RedisCache) StoreToken(ctx context.Context, purpose, token string, userID uint64, ttl time.Duration) error {
	return c.Client.Set(ctx, keyForToken(purpose, token), userID, ttl).Err()
}

// ConsumeToken resolves a token to its user and deletes it. Returns
// (0, false, nil) for unknown or expired tokens.
func (c *RedisCache) ConsumeToken(ctx context.Context, purpose, token string) (uint64, bool, error) {
	key := keyForToken(purpose, token)

	val, err := c.Client.GetDel(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}
