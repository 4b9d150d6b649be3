package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/marketplace"
)

const (
	defaultCacheTTL = 10 * time.Minute
	keyPrefix       = "foundermatch:"
)

type CacheConfig struct {
	Address string
	DB      int
	TTL     time.Duration
}

func NewRedisClient(cfg CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// CachedStore is a read-through cache for single record lookups. Redis is an
// optimisation only: any cache failure falls back to the wrapped store.
type CachedStore struct {
	marketplace.Store

	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(store marketplace.Store, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{Store: store, client: client, ttl: ttl, logger: logger}
}

func actorKey(id string) string { return keyPrefix + "actor:" + id }
func orgKey(id string) string   { return keyPrefix + "organization:" + id }

func (c *CachedStore) ActorByID(ctx context.Context, id string) (*marketplace.Actor, error) {
	var cached marketplace.Actor
	if c.get(ctx, actorKey(id), &cached) {
		return &cached, nil
	}

	actor, err := c.Store.ActorByID(ctx, id)
	if err != nil || actor == nil {
		return actor, err
	}
	c.set(ctx, actorKey(id), actor)
	return actor, nil
}

func (c *CachedStore) OrganizationByID(ctx context.Context, id string) (*marketplace.Organization, error) {
	var cached marketplace.Organization
	if c.get(ctx, orgKey(id), &cached) {
		return &cached, nil
	}

	org, err := c.Store.OrganizationByID(ctx, id)
	if err != nil || org == nil {
		return org, err
	}
	c.set(ctx, orgKey(id), org)
	return org, nil
}

func (c *CachedStore) Close() error {
	return c.client.Close()
}

func (c *CachedStore) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("profile cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}
	c.logger.Debug("profile cache hit", zap.String("key", key))
	return true
}

func (c *CachedStore) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("encoding cache entry failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache write failed", zap.String("key", key), zap.Error(err))
	}
}
