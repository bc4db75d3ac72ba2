package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"college-payroll/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardKey  = "payroll:dashboard"
	generationKey = "payroll:dashboard:gen"
)

// StatsCache keeps the dashboard statistics in Redis for a short TTL.
// Every invalidation bumps a generation counter; a snapshot is only stored
// if the generation it was computed under is still current.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Connect builds a Redis client from cfg and pings it.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// Get decodes the cached value into target. It reports false on a miss.
func (c *StatsCache) Get(ctx context.Context, target interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, err
	}
	return true, nil
}

// Generation returns the current invalidation counter. A missing counter is 0.
func (c *StatsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores value if no invalidation happened since gen was read. A snapshot
// from an older generation is dropped silently.
func (c *StatsCache) Set(ctx context.Context, gen int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dashboardKey, data, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops the cached snapshot and moves the generation forward so
// that snapshots computed before the write cannot be stored afterwards.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, dashboardKey)
		return nil
	})
	return err
}
