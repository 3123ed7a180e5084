package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rahulpatwa/community-events-backend/config"
)

var redisClient *redis.Client

// InitRedis connects the shared Redis client.
func InitRedis(cfg *config.Config) error {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Println("✅ Redis connection established")
	return nil
}

// GetRedis returns the shared client, or nil when InitRedis was not run.
func GetRedis() *redis.Client {
	return redisClient
}

// CacheSet stores a value with TTL. No-op when Redis is unavailable.
func CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if redisClient == nil {
		return
	}
	if err := redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("⚠️ Redis SET %s failed: %v", key, err)
	}
}

// CacheGet returns the cached value, or nil on miss/unavailable.
func CacheGet(ctx context.Context, key string) []byte {
	if redisClient == nil {
		return nil
	}
	val, err := redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return val
}

// CacheDelete drops keys. No-op when Redis is unavailable.
func CacheDelete(ctx context.Context, keys ...string) {
	if redisClient == nil || len(keys) == 0 {
		return
	}
	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Redis DEL failed: %v", err)
	}
}
