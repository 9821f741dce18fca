package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/redis"
)

// CountCache holds the advisory pending-count badges.
type CountCache interface {
	Get(ctx context.Context) (map[enums.EntityType]int64, bool)
	Set(ctx context.Context, counts map[enums.EntityType]int64)
	Invalidate(ctx context.Context)
}

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisCountCache keeps the counts as one JSON value with a short TTL.
// Failures are logged and treated as a miss; the database stays the source
// of truth.
type RedisCountCache struct {
	client redisKV
	key    string
	ttl    time.Duration
	logg   *logger.Logger
}

func NewRedisCountCache(client redisKV, key string, ttl time.Duration, logg *logger.Logger) *RedisCountCache {
	return &RedisCountCache{client: client, key: key, ttl: ttl, logg: logg}
}

func (c *RedisCountCache) Get(ctx context.Context) (map[enums.EntityType]int64, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn(ctx, "pending counts cache read failed", err)
		}
		return nil, false
	}
	counts := map[enums.EntityType]int64{}
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		c.warn(ctx, "pending counts cache decode failed", err)
		return nil, false
	}
	return counts, true
}

func (c *RedisCountCache) Set(ctx context.Context, counts map[enums.EntityType]int64) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(counts)
	if err != nil {
		c.warn(ctx, "pending counts cache encode failed", err)
		return
	}
	if err := c.client.Set(ctx, c.key, string(payload), c.ttl); err != nil {
		c.warn(ctx, "pending counts cache write failed", err)
	}
}

func (c *RedisCountCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key); err != nil {
		c.warn(ctx, "pending counts cache invalidate failed", err)
	}
}

func (c *RedisCountCache) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}
