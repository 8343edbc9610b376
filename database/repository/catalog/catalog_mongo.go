package catalogRepo

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

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	services    *mongo.Collection
	subservices *mongo.Collection
}

// NewMongoCatalogRepo creates a new instance of CatalogRepository using MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	repo := &MongoCatalogRepo{
		services:    database.Collection("services"),
		subservices: database.Collection("subservices"),
	}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create catalog indexes", zap.Error(err))
	}
	return repo
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.services.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}

	if _, err := r.subservices.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "serviceId", Value: 1}, {Key: "name", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create subservice indexes: %w", err)
	}
	return nil
}
