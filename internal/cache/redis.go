package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/mindsync/internal/screening"
)

// RedisCache stores snapshots as JSON under screening:<id>, so several API
// instances can share in-progress screenings.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttlOrDefault(ttl)}
}

// NewRedisClient connects to addr and pings it once.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisCache) Set(ctx context.Context, id string, snap screening.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(id), data, c.ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, id string) (screening.Snapshot, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return screening.Snapshot{}, ErrMiss
	}
	if err != nil {
		return screening.Snapshot{}, err
	}
	var snap screening.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return screening.Snapshot{}, fmt.Errorf("decoding screening %s: %w", id, err)
	}
	return snap, nil
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, key(id)).Err()
}
