package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kindred_server/models"
)

const (
	scoreKeyPrefix = "compat:score:"
	userKeyPrefix  = "compat:user:"
)

// CompatibilityCache memoizes pairwise scores under the canonical pair key.
// A Get past expiry is a miss; Put is a single atomic upsert.
type CompatibilityCache interface {
	Get(ctx context.Context, pairKey string) (*models.CompatibilityScoreEntry, error)
	Put(ctx context.Context, entry *models.CompatibilityScoreEntry) error
	InvalidateUser(ctx context.Context, userID string) error
}

// redisCmdable is the slice of the go-redis client the cache needs.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCompatibilityCache is the Redis-backed cache. Construct one and pass
// it to the services that need it; there is no package-level instance.
type RedisCompatibilityCache struct {
	Client redisCmdable
	Logger *zap.Logger
}

var _ CompatibilityCache = (*RedisCompatibilityCache)(nil)

func NewRedisCompatibilityCache(client redisCmdable, logger *zap.Logger) *RedisCompatibilityCache {
	return &RedisCompatibilityCache{Client: client, Logger: logger}
}

// Get returns the live entry for the pair, or nil on miss or expiry.
func (c *RedisCompatibilityCache) Get(ctx context.Context, pairKey string) (*models.CompatibilityScoreEntry, error) {
	payload, err := c.Client.Get(ctx, scoreKeyPrefix+pairKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read for pair '%s': %w", pairKey, err)
	}

	var entry models.CompatibilityScoreEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, fmt.Errorf("cache entry for pair '%s' corrupt: %w", pairKey, err)
	}
	// Redis evicts on TTL; the stored expiry is still checked so a clock
	// disagreement can only shorten an entry's life, never extend it.
	if entry.Expired(time.Now()) {
		return nil, nil
	}
	return &entry, nil
}

// Put upserts the entry with a fresh TTL and records the pair key in both
// users' index sets for invalidation.
func (c *RedisCompatibilityCache) Put(ctx context.Context, entry *models.CompatibilityScoreEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry for pair '%s': %w", entry.PairKey, err)
	}
	if err := c.Client.Set(ctx, scoreKeyPrefix+entry.PairKey, payload, models.CompatibilityTTL).Err(); err != nil {
		return fmt.Errorf("cache write for pair '%s': %w", entry.PairKey, err)
	}

	for _, userID := range strings.SplitN(entry.PairKey, "#", 2) {
		indexKey := userKeyPrefix + userID
		if err := c.Client.SAdd(ctx, indexKey, entry.PairKey).Err(); err != nil {
			return fmt.Errorf("cache index write for user '%s': %w", userID, err)
		}
		if err := c.Client.Expire(ctx, indexKey, models.CompatibilityTTL).Err(); err != nil {
			c.Logger.Warn("cache index expire failed", zap.String("userId", userID), zap.Error(err))
		}
	}
	return nil
}

// InvalidateUser deletes every cached entry whose pair includes the user.
// Called whenever the user's trait vector is replaced or reset.
func (c *RedisCompatibilityCache) InvalidateUser(ctx context.Context, userID string) error {
	indexKey := userKeyPrefix + userID
	pairKeys, err := c.Client.SMembers(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache index read for user '%s': %w", userID, err)
	}

	keys := make([]string, 0, len(pairKeys)+1)
	for _, pairKey := range pairKeys {
		keys = append(keys, scoreKeyPrefix+pairKey)
	}
	keys = append(keys, indexKey)
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidation for user '%s': %w", userID, err)
	}
	c.Logger.Info("compatibility cache invalidated",
		zap.String("userId", userID), zap.Int("entries", len(pairKeys)))
	return nil
}
