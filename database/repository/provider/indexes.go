package providerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the uniqueness and lookup indexes.
func (r *MongoProviderRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_phone")},
		{Keys: bson.D{{Key: "aadhaarCard.number", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_aadhaar")},
		{Keys: bson.D{{Key: "panCard.number", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_pan")},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "services", Value: 1}}},
		{Keys: bson.D{{Key: "subservices", Value: 1}}},
		{Keys: bson.D{{Key: "rating.average", Value: -1}, {Key: "rating.totalRatings", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
