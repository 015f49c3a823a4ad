package cachedresults

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/keyakigo/keyakigo/pkg/redis_client"
	"github.com/redis/go-redis/v9"
)

const defaultExpiration = 10 * time.Minute

type Cache struct {
	Cache *cache.Cache[string]
}

func (c *Cache) Setup() {
	c.SetupWithClient(redis_client.Client, defaultExpiration)
}

func (c *Cache) SetupWithClient(client *redis.Client, expiration time.Duration) {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	c.Cache = cache.New[string](redisStore)
}

// Get decodes the cached JSON for key into value and reports whether it was found
func (c *Cache) Get(ctx context.Context, key string, value any) bool {
	if c == nil || c.Cache == nil {
		return false
	}

	cachedObject, err := c.Cache.Get(ctx, key)
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(cachedObject), value) == nil
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.Cache == nil {
		return nil
	}

	valueJson, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, key, string(valueJson))
}
