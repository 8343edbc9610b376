package ratingRepo

import (
	"testing"
	"time"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestReviewOnlyMatchesUnapprovedRatings(t *testing.T) {
	assert.Equal(t, bson.M{
		"id":     "r-1",
		"status": bson.M{"$ne": models.RatingApproved},
	}, reviewableFilter("r-1"))
}

func TestReviewUpdateLeavesAggregationAlone(t *testing.T) {
	at := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

	update := reviewUpdate(Review{Status: models.RatingApproved, AdminID: "admin-1", Note: "ok", At: at})
	set := update["$set"].(bson.M)
	assert.Equal(t, models.RatingApproved, set["status"])
	assert.Equal(t, "ok", set["reviewNote"])
	assert.NotContains(t, set, "aggregated")
	assert.NotContains(t, update, "$unset")

	cleared := reviewUpdate(Review{Status: models.RatingRejected, AdminID: "admin-1", At: at})
	assert.Equal(t, bson.M{"reviewNote": ""}, cleared["$unset"])
}

func TestPendingFilterScopesToAuthor(t *testing.T) {
	assert.Equal(t, bson.M{"id": "r-1", "user": "u-1", "status": models.RatingPending}, pendingOf("r-1", "u-1"))
}
