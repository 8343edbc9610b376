package rating

import (
	"context"
	"encoding/json"
	"time"

	"homeserve/models"

	"github.com/go-redis/redis/v8"
)

const averagesCacheKey = "ratings:averages:subservices"

// SummaryCache holds the all-subservice averages between approvals.
type SummaryCache interface {
	Load(ctx context.Context) ([]models.SubserviceRatingSummary, bool)
	Store(ctx context.Context, summaries []models.SubserviceRatingSummary)
	Invalidate(ctx context.Context)
}

// RedisSummaryCache keeps the averages as one JSON value.
type RedisSummaryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisSummaryCache{Client: client, TTL: ttl}
}

func (c *RedisSummaryCache) Load(ctx context.Context) ([]models.SubserviceRatingSummary, bool) {
	cached, err := c.Client.Get(ctx, averagesCacheKey).Result()
	if err != nil || cached == "" {
		return nil, false
	}
	var summaries []models.SubserviceRatingSummary
	if err := json.Unmarshal([]byte(cached), &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (c *RedisSummaryCache) Store(ctx context.Context, summaries []models.SubserviceRatingSummary) {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	c.Client.Set(ctx, averagesCacheKey, raw, c.TTL)
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context) {
	c.Client.Del(ctx, averagesCacheKey)
}
