// Package cache keeps aggregated post views in Redis.
//
// Entries are keyed by a generation number. Any write to posts or to the
// rows they join with bumps the generation, which orphans every cached view
// at once; orphans age out through their TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog-cms/backend/app/models"

	"github.com/redis/go-redis/v9"
)

// Views is the cache contract used by the services. Get reports the
// generation it looked in; a miss is filled by passing that generation back
// to Set, so rows read before an invalidation land in the orphaned
// generation and are never served.
type Views interface {
	Get(ctx context.Context, key string) (views []models.PostView, gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, key string, views []models.PostView) error
	Invalidate(ctx context.Context) error
}

const generationKey = "posts:gen"

type RedisViews struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisViews(rdb *redis.Client, prefix string, ttl time.Duration) *RedisViews {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisViews{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisViews) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.prefix+generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisViews) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%sposts:v%d:%s", c.prefix, gen, key)
}

func (c *RedisViews) Get(ctx context.Context, key string) ([]models.PostView, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.rdb.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}
	var views []models.PostView
	if err := json.Unmarshal(raw, &views); err != nil {
		return nil, gen, false, err
	}
	return views, gen, true, nil
}

func (c *RedisViews) Set(ctx context.Context, gen int64, key string, views []models.PostView) error {
	raw, err := json.Marshal(views)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.entryKey(gen, key), raw, c.ttl).Err()
}

func (c *RedisViews) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.prefix+generationKey).Err()
}

// Nop caches nothing. It is used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]models.PostView, int64, bool, error) {
	return nil, 0, false, nil
}

func (Nop) Set(context.Context, int64, string, []models.PostView) error { return nil }

func (Nop) Invalidate(context.Context) error { return nil }
