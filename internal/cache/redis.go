package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// IncrementJobViews bumps the public view counter for a job and returns the
// new total. Counters are periodically flushed back to the jobs table by the
// caller; a cache failure is never fatal to the read path.
func IncrementJobViews(ctx context.Context, c *redis.Client, jobID string) (int64, error) {
	return c.Incr(ctx, "job:views:"+jobID).Result()
}

// JobViews reads the cached view counter for a job (0 when absent).
func JobViews(ctx context.Context, c *redis.Client, jobID string) (int64, error) {
	n, err := c.Get(ctx, "job:views:"+jobID).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// Allow implements a fixed-window rate limit: at most limit requests per
// window for the given key. Fails open on redis errors so a cache outage
// never blocks the public flow.
func Allow(ctx context.Context, c *redis.Client, key string, limit int, window time.Duration) (bool, error) {
	bucket := fmt.Sprintf("rl:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))
	n, err := c.Incr(ctx, bucket).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		c.Expire(ctx, bucket, window)
	}
	return n <= int64(limit), nil
}
