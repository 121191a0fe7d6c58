package multiplier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/model"
)

// Cache stores string values with a TTL.
type Cache interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache implements Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a cache client for addr.
func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping checks the server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return eris.Wrap(err, "multiplier: redis ping")
	}
	return nil
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "multiplier: redis get %s", key)
	}
	return val, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return eris.Wrapf(err, "multiplier: redis set %s", key)
	}
	return nil
}

// Close releases the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// missMarker is cached for lookups that found nothing.
const missMarker = "null"

// CachedSource serves lookups from a cache in front of another source.
// Misses are cached too. Cache failures are logged and bypassed.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	prefix string
}

// NewCachedSource wraps source with cache. Keys are namespaced by prefix.
func NewCachedSource(source Source, cache Cache, ttl time.Duration, prefix string) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl, prefix: prefix}
}

// Exact implements Source.
func (c *CachedSource) Exact(ctx context.Context, name string) (*model.IndustryProfile, error) {
	return c.get(ctx, "exact", name, c.source.Exact)
}

// Fuzzy implements Source.
func (c *CachedSource) Fuzzy(ctx context.Context, name string) (*model.IndustryProfile, error) {
	return c.get(ctx, "fuzzy", name, c.source.Fuzzy)
}

func (c *CachedSource) get(ctx context.Context, kind, name string, load func(context.Context, string) (*model.IndustryProfile, error)) (*model.IndustryProfile, error) {
	key := c.prefix + kind + ":" + strings.ToLower(strings.TrimSpace(name))

	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		zap.L().Warn("multiplier: cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		if p, ok := decodeCached(raw); ok {
			return p, nil
		}
		zap.L().Warn("multiplier: discarding corrupt cache entry", zap.String("key", key))
	}

	p, err := load(ctx, name)
	if err != nil {
		return nil, err
	}

	val := missMarker
	if p != nil {
		b, err := json.Marshal(p)
		if err != nil {
			return p, nil
		}
		val = string(b)
	}
	if err := c.cache.Set(ctx, key, val, c.ttl); err != nil {
		zap.L().Warn("multiplier: cache set failed", zap.String("key", key), zap.Error(err))
	}
	return p, nil
}

func decodeCached(raw string) (*model.IndustryProfile, bool) {
	if raw == missMarker {
		return nil, true
	}
	var p model.IndustryProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Industry == "" {
		return nil, false
	}
	return &p, true
}
