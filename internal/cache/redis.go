package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vibe-gaming/enrollment/internal/config"
)

const (
	RedisTypeSingle  = "redis"
	RedisTypeCluster = "redisCluster"
	pingTimeout      = time.Millisecond * 1500
)

var ErrWrongRedisType = errors.New("wrong redis type")

// NewRedis connects the client used by both the redis registration store and asynq.
func NewRedis(cfg config.Cache) (redis.UniversalClient, error) {
	switch cfg.Type {
	case RedisTypeSingle:
		return newRedis(cfg)
	case RedisTypeCluster:
		return newRedisCluster(cfg)
	}

	return nil, ErrWrongRedisType
}

func newRedis(cfg config.Cache) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Address,
		Password:        cfg.Redis.Password,
		PoolSize:        cfg.Redis.PoolSize,
		ConnMaxIdleTime: 170 * time.Second,
		DialTimeout:     time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	})

	return client, ping(client)
}

func newRedisCluster(cfg config.Cache) (*redis.ClusterClient, error) {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:    cfg.RedisCluster.Addresses,
		Password: cfg.RedisCluster.Password,
		// registration scripts read their own writes, keep reads on masters
		RouteRandomly:   false,
		ReadOnly:        false,
		PoolSize:        cfg.RedisCluster.PoolSize,
		ConnMaxLifetime: 15 * time.Minute,
		DialTimeout:     time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	})

	return client, ping(client)
}

func ping(client redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	return client.Ping(ctx).Err()
}
