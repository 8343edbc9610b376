package ratingRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoRatingRepo implements RatingRepository using MongoDB.
type MongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo creates a new instance of RatingRepository using MongoDB.
func NewMongoRatingRepo() RatingRepository {
	repo := &MongoRatingRepo{coll: database.Collection("ratings")}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create rating indexes", zap.Error(err))
	}
	return repo
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// ensureIndexes creates indexes. One rating per (booking, subservice).
func (r *MongoRatingRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "booking", Value: 1}, {Key: "subservice", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_booking_subservice"),
		},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "subservice", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "aggregated", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
