package ratingRepo

import (
	"testing"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRatingFilterToBSON(t *testing.T) {
	assert.Equal(t, bson.M{}, RatingFilter{}.toBSON())
	assert.Equal(t, bson.M{
		"user":   "u1",
		"status": models.RatingPending,
	}, RatingFilter{UserID: "u1", Status: models.RatingPending}.toBSON())
}

func TestStarCountPipelineMatchesApprovedOnly(t *testing.T) {
	all := starCountPipeline("")
	assert.Len(t, all, 3)
	assert.Equal(t, bson.M{"status": models.RatingApproved}, all[0][0].Value)

	one := starCountPipeline("ss-1")
	assert.Equal(t, bson.M{"status": models.RatingApproved, "subservice": "ss-1"}, one[0][0].Value)
}
