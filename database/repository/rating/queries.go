package ratingRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (f RatingFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user"] = f.UserID
	}
	if f.BookingID != "" {
		filter["booking"] = f.BookingID
	}
	if f.ProviderID != "" {
		filter["serviceProvider"] = f.ProviderID
	}
	if f.SubserviceID != "" {
		filter["subservice"] = f.SubserviceID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// List returns a page of ratings, newest first.
func (r *MongoRatingRepo) List(ctx context.Context, f RatingFilter, page models.PageRequest) ([]models.Rating, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := f.toBSON()
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, total, nil
}

var unaggregatedFilter = bson.M{"status": models.RatingApproved, "aggregated": false}

// ListUnaggregated returns approved ratings still missing from provider stats.
func (r *MongoRatingRepo) ListUnaggregated(ctx context.Context, limit int) ([]models.Rating, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "reviewedAt", Value: 1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, unaggregatedFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve unaggregated ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}

// CountUnaggregated counts approved ratings still missing from provider stats.
func (r *MongoRatingRepo) CountUnaggregated(ctx context.Context) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, unaggregatedFilter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unaggregated ratings: %w", err)
	}
	return n, nil
}

// ClaimForAggregation marks an approved rating as aggregated if nobody has yet.
func (r *MongoRatingRepo) ClaimForAggregation(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.RatingApproved, "aggregated": false}
	update := bson.M{"$set": bson.M{"aggregated": true, "aggregatedAt": at}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim rating %s for aggregation: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}
