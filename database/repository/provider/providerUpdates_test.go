package providerRepo

import (
	"testing"
	"time"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProfileUpdateNeverWritesRating(t *testing.T) {
	p := &models.ServiceProvider{
		ID:        "p-1",
		Name:      "Ravi",
		Status:    models.ProviderActive,
		Rating:    models.RatingStats{Average: 1, TotalRatings: 1, Distribution: map[string]int{"1": 1}},
		CreatedAt: time.Now(),
	}

	doc, err := profileUpdate(p)
	require.NoError(t, err)
	assert.NotContains(t, doc, "rating")
	assert.NotContains(t, doc, "createdAt")
	assert.Equal(t, "Ravi", doc["name"])
	assert.Equal(t, string(models.ProviderActive), doc["status"])
	assert.Contains(t, doc, "updatedAt")
}

func TestAddRatingPipelineIncrementsOneBucket(t *testing.T) {
	at := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	pipeline := addRatingPipeline(4, at)
	require.Len(t, pipeline, 3)

	buckets := pipeline[0][0].Value.(bson.D)
	require.Len(t, buckets, models.MaxRating)
	for _, e := range buckets {
		expr := e.Value.(bson.M)
		if e.Key == "rating.distribution.4" {
			assert.Contains(t, expr, "$add")
		} else {
			assert.Contains(t, expr, "$ifNull")
		}
	}

	totals := pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "rating.totalRatings", totals[0].Key)
	assert.Equal(t, bson.E{Key: "updatedAt", Value: at}, totals[1])

	average := pipeline[2][0].Value.(bson.D)
	assert.Equal(t, "rating.average", average[0].Key)
}
