package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

func newTestCache(t *testing.T) (*SearchCache, *miniredis.Miniredis, *observability.Metrics) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	metrics := observability.New()
	cfg := DefaultSearchCacheConfig()
	cfg.TTL = time.Minute
	cfg.OpTimeout = time.Second
	return newSearchCache(rdb, cfg, logger.Nop(), metrics), mr, metrics
}

func TestSearchCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	_, gen, ok := c.Get(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	c.Put(ctx, gen, "q", []string{"b", "a"})
	ids, _, ok := c.Get(ctx, "q")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, ids)

	c.Put(ctx, gen, "empty", []string{})
	ids, _, ok = c.Get(ctx, "empty")
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestSearchCacheInvalidateOrphansEntries(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	_, gen, _ := c.Get(ctx, "q")
	c.Put(ctx, gen, "q", []string{"a"})
	c.Invalidate(ctx)
	_, next, ok := c.Get(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, gen+1, next)

	c.Put(ctx, next, "q", []string{"b"})
	ids, _, ok := c.Get(ctx, "q")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, ids)
}

func TestSearchCachePutAfterInvalidateIsOrphaned(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	_, gen, ok := c.Get(ctx, "q")
	require.False(t, ok)
	c.Invalidate(ctx)
	c.Put(ctx, gen, "q", []string{"stale"})

	ids, _, ok := c.Get(ctx, "q")
	assert.False(t, ok, "stale result visible: %v", ids)
}

func TestSearchCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newTestCache(t)

	c.Put(ctx, 0, "q", []string{"a"})
	mr.FastForward(2 * time.Minute)
	_, _, ok := c.Get(ctx, "q")
	assert.False(t, ok)
}

func TestSearchCacheUnavailableIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newTestCache(t)

	c.Put(ctx, 0, "q", []string{"a"})
	mr.Close()
	_, gen, ok := c.Get(ctx, "q")
	assert.False(t, ok)
	assert.Less(t, gen, int64(0))
	c.Put(ctx, gen, "q", []string{"a"})
	c.Invalidate(ctx)
}

func TestNilSearchCache(t *testing.T) {
	var c *SearchCache
	_, _, ok := c.Get(context.Background(), "q")
	assert.False(t, ok)
	c.Put(context.Background(), 0, "q", nil)
	c.Invalidate(context.Background())
	assert.NoError(t, c.Close())

	none, err := NewSearchCache(SearchCacheConfig{}, logger.Nop(), nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}
