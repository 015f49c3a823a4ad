package cachedresults

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name    string
	Minutes int
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	c := &Cache{}
	c.SetupWithClient(client, time.Minute)

	return c, server
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var missing cachedValue
	assert.False(t, c.Get(ctx, "cachedresults/test/a", &missing))

	require.NoError(t, c.Set(ctx, "cachedresults/test/a", cachedValue{Name: "直行", Minutes: 20}))

	var found cachedValue
	require.True(t, c.Get(ctx, "cachedresults/test/a", &found))
	assert.Equal(t, cachedValue{Name: "直行", Minutes: 20}, found)
}

func TestCacheExpires(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "cachedresults/test/b", cachedValue{Name: "基山経由"}))
	server.FastForward(2 * time.Minute)

	var found cachedValue
	assert.False(t, c.Get(ctx, "cachedresults/test/b", &found))
}

func TestNilCache(t *testing.T) {
	var c *Cache

	assert.NoError(t, c.Set(context.Background(), "key", 1))

	var value int
	assert.False(t, c.Get(context.Background(), "key", &value))
}
