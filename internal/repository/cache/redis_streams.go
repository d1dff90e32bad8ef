package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shuttle-booking/internal/config"
	"go.uber.org/zap"
)

// NewRedisStreams creates a dedicated client for blocking stream reads so that
// XREADGROUP calls never hold connections of the cache pool. ReadTimeout is
// raised above the block interval used by consumers.
func NewRedisStreams(cfg *config.RedisConfig, blockFor time.Duration, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    4,
		ReadTimeout: blockFor + 2*time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis streams: %w", err)
	}

	logger.Info("Redis Streams connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Duration("block", blockFor),
	)

	return client, nil
}
