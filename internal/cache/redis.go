package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/vidrec/internal/config"
	"github.com/redis/go-redis/v9"
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

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForFollowerCount generates the Redis key for a user's follower count.
func (c *RedisCache) KeyForFollowerCount(mid uint64) string {
	return fmt.Sprintf("followers:count:%d", mid)
}

// GetFollowerCount returns the cached count and whether it was present.
// A hit refreshes the TTL.
func (c *RedisCache) GetFollowerCount(ctx context.Context, mid uint64, ttl time.Duration) (int64, bool, error) {
	key := c.KeyForFollowerCount(mid)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// unreadable entry, treat as a miss and let the caller overwrite it
		return 0, false, nil
	}
	_ = c.Client.Expire(ctx, key, ttl).Err()
	return n, true, nil
}

// KeyForFollowerGeneration is bumped by every invalidation of mid's count.
func (c *RedisCache) KeyForFollowerGeneration(mid uint64) string {
	return fmt.Sprintf("followers:gen:%d", mid)
}

// generationTTL outlives any in-flight read by a wide margin; an expired
// generation reads as 0 and only ever fails a pending write-back.
const generationTTL = 24 * time.Hour

// FollowerCountGeneration reads the generation a later SetFollowerCount must
// match. Read it before counting from the database.
func (c *RedisCache) FollowerCountGeneration(ctx context.Context, mid uint64) (int64, error) {
	gen, err := c.Client.Get(ctx, c.KeyForFollowerGeneration(mid)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if (gen or '0') ~= ARGV[3] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// SetFollowerCount stores count only while mid's generation still equals gen,
// so a count read before a concurrent write is never cached after that
// write's invalidation. It reports whether the value was stored.
func (c *RedisCache) SetFollowerCount(ctx context.Context, mid uint64, count int64, ttl time.Duration, gen int64) (bool, error) {
	keys := []string{c.KeyForFollowerCount(mid), c.KeyForFollowerGeneration(mid)}
	stored, err := setIfGeneration.Run(ctx, c.Client, keys, count, ttl.Milliseconds(), gen).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// InvalidateFollowerCounts drops the cached counts of every given user and
// bumps their generations.
func (c *RedisCache) InvalidateFollowerCounts(ctx context.Context, mids ...uint64) error {
	if len(mids) == 0 {
		return nil
	}
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, mid := range mids {
			genKey := c.KeyForFollowerGeneration(mid)
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, generationTTL)
			pipe.Del(ctx, c.KeyForFollowerCount(mid))
		}
		return nil
	})
	return err
}
