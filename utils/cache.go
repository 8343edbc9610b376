package utils

import (
	"context"
	"log"
	"time"

	"homeserve/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// OTPCacheClient holds one-time passwords.
	OTPCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis connects every Redis client used by the application.
func InitRedis() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	OTPCacheClient = newRedisClient(config.AppConfig.RedisOTPDB)
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	}
	return CacheClient
}

// GetOTPCacheClient returns the Redis client for OTP storage.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		OTPCacheClient = newRedisClient(config.AppConfig.RedisOTPDB)
	}
	return OTPCacheClient
}

// RedisClients lists the initialised clients for health checks.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, OTPCacheClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
