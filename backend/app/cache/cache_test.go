package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"blog-cms/backend/app/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNopNeverHits(t *testing.T) {
	ctx := context.Background()
	var c Views = Nop{}
	if err := c.Set(ctx, 0, "all", []models.PostView{{ID: 1}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, _, hit, err := c.Get(ctx, "all"); hit || err != nil {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
}

func TestRedisViewsGenerations(t *testing.T) {
	_, rdb := newMiniRedis(t)
	checkGenerations(t, NewRedisViews(rdb, "test:", 10*time.Second))
}

// TestRedisViewsLiveServer repeats the generation checks against the server
// named by REDIS_ADDR.
func TestRedisViewsLiveServer(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	checkGenerations(t, NewRedisViews(rdb, "test:"+uuid.NewString()+":", 10*time.Second))
}

func checkGenerations(t *testing.T, c *RedisViews) {
	t.Helper()
	ctx := context.Background()
	views := []models.PostView{{ID: 7, Title: "hello", Status: models.StatusPublished}}

	_, gen, hit, err := c.Get(ctx, "all")
	if err != nil || hit {
		t.Fatalf("expected cold miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, gen, "all", views); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, hit, err := c.Get(ctx, "all")
	if err != nil || !hit || len(got) != 1 || got[0].Title != "hello" {
		t.Fatalf("expected hit, got %+v hit=%v err=%v", got, hit, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, next, hit, err := c.Get(ctx, "all")
	if hit || err != nil {
		t.Fatalf("expected miss after invalidate, got hit=%v err=%v", hit, err)
	}
	if next == gen {
		t.Fatalf("generation did not move: %d", next)
	}
}

func TestSetIntoStaleGenerationIsNeverServed(t *testing.T) {
	ctx := context.Background()
	_, rdb := newMiniRedis(t)
	c := NewRedisViews(rdb, "test:", time.Minute)

	_, gen, _, err := c.Get(ctx, "all")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// a writer commits between the reader's miss and its fill
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := c.Set(ctx, gen, "all", []models.PostView{{ID: 1, Title: "old"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _, hit, err := c.Get(ctx, "all"); hit || err != nil {
		t.Fatalf("stale fill served: %+v hit=%v err=%v", got, hit, err)
	}
}

func TestEntriesExpire(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newMiniRedis(t)
	c := NewRedisViews(rdb, "blog:", time.Minute)
	if err := c.Set(ctx, 0, "all", []models.PostView{{ID: 1}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	keys := mr.Keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], "blog:posts:v0:") {
		t.Fatalf("unexpected keys %v", keys)
	}
	mr.FastForward(2 * time.Minute)
	if _, _, hit, err := c.Get(ctx, "all"); hit || err != nil {
		t.Fatalf("expected expiry, got hit=%v err=%v", hit, err)
	}
}

func TestGetReportsServerFailure(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	c := NewRedisViews(rdb, "", time.Minute)
	mr.SetError("LOADING")
	if _, _, _, err := c.Get(context.Background(), "all"); err == nil {
		t.Fatal("expected error from failing server")
	}
}
