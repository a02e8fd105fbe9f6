package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the unread-count cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RedisUnreadCache implements UnreadCache on Redis.
type RedisUnreadCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisUnreadCache connects to Redis and verifies the connection.
func NewRedisUnreadCache(cfg RedisConfig, prefix string, ttl time.Duration) (*RedisUnreadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisUnreadCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (c *RedisUnreadCache) key(userID string) string {
	return fmt.Sprintf("%s:unread:%s", c.prefix, userID)
}

func (c *RedisUnreadCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	count, err := c.client.Get(ctx, c.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get unread count from redis: %w", err)
	}
	return count, true, nil
}

func (c *RedisUnreadCache) Set(ctx context.Context, userID string, count int64) error {
	if err := c.client.Set(ctx, c.key(userID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set unread count in redis: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate unread count in redis: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Close() error {
	return c.client.Close()
}

// Ensure interface is satisfied at compile time.
var _ UnreadCache = (*RedisUnreadCache)(nil)
