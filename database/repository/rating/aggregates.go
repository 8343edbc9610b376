package ratingRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// starCountPipeline groups approved ratings by subservice and star value.
func starCountPipeline(subserviceID string) mongo.Pipeline {
	match := bson.M{"status": models.RatingApproved}
	if subserviceID != "" {
		match["subservice"] = subserviceID
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"subservice": "$subservice", "rating": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"subservice": "$_id.subservice",
			"rating":     "$_id.rating",
			"count":      1,
		}}},
	}
}

// ApprovedStarCounts counts approved ratings per subservice and star value.
func (r *MongoRatingRepo) ApprovedStarCounts(ctx context.Context, subserviceID string) ([]models.StarCount, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, starCountPipeline(subserviceID))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []models.StarCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode rating counts: %w", err)
	}
	return counts, nil
}
