package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/pkg/entity"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "habitflow:stats:"
	DefaultTTL = 5 * time.Minute
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisStatsCache stores one encoded dashboard per user. Entries expire
// after ttl, so a missed invalidation is visible for at most that long.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStatsCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func key(uid uuid.UUID) string {
	return keyPrefix + uid.String()
}

func (c *RedisStatsCache) Get(ctx context.Context, uid uuid.UUID) (*entity.DashboardStats, error) {
	raw, err := c.rdb.Get(ctx, key(uid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorvalues.ErrCacheMiss
		}
		return nil, errors.New("redis get error: " + err.Error())
	}
	var stats entity.DashboardStats
	if err = sonic.Unmarshal(raw, &stats); err != nil {
		return nil, errors.New("decoding cached stats error: " + err.Error())
	}
	return &stats, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, uid uuid.UUID, stats *entity.DashboardStats) error {
	raw, err := sonic.Marshal(stats)
	if err != nil {
		return errors.New("encoding stats error: " + err.Error())
	}
	if err = c.rdb.Set(ctx, key(uid), raw, c.ttl).Err(); err != nil {
		return errors.New("redis set error: " + err.Error())
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, uid uuid.UUID) error {
	if err := c.rdb.Del(ctx, key(uid)).Err(); err != nil {
		return errors.New("redis del error: " + err.Error())
	}
	return nil
}
