package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo              bool      `json:"mongo"`
	Redis              []bool    `json:"redis"`
	AggregationBacklog int64     `json:"aggregationBacklog"` // Approved ratings not yet in provider stats
	CheckedAt          time.Time `json:"checkedAt"`
}

// BacklogCounter reports how many approved ratings still await aggregation.
type BacklogCounter func(ctx context.Context) (int64, error)

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func checkHealth(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client, backlog BacklogCounter) HealthStatus {
	var redisHealth []bool
	for _, client := range redisClients {
		redisHealth = append(redisHealth, client.Ping(ctx).Err() == nil)
	}

	status := HealthStatus{
		Mongo:     mongoClient.Ping(ctx, nil) == nil,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}
	if backlog != nil {
		n, err := backlog(ctx)
		if err != nil {
			GetLogger().Warn("health: failed to count aggregation backlog", zap.Error(err))
		}
		status.AggregationBacklog = n
		if n > 0 {
			GetLogger().Warn("health: ratings awaiting aggregation", zap.Int64("backlog", n))
		}
	}
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client, backlog BacklogCounter) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			status := checkHealth(checkCtx, redisClients, mongoClient, backlog)
			cancel()

			mu.Lock()
			currentHealth = status
			mu.Unlock()

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
