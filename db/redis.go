package db

import (
	"context"
	"fmt"
	"sentinel-api/config"
	"sentinel-api/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis initializes a Redis client for the given logical database.
// The token blocklist and the cache use separate logical databases so that
// revocation entries are never disturbed by cache maintenance.
func ConnectRedis(dbIndex int) (*redis.Client, error) {
	cfg := config.AppConfig.Redis

	redisAddr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.Password,
		DB:       dbIndex,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping Redis")
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"address": redisAddr,
		"db":      dbIndex,
	}).Info("Redis connection established successfully")
	return rdb, nil
}
