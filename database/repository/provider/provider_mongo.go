package providerRepo

import (
	"context"
	"time"

	"homeserve/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo() ProviderRepository {
	repo := &MongoProviderRepo{coll: database.Collection("serviceproviders")}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create provider indexes", zap.Error(err))
	}
	return repo
}

// newContext derives a context with the given timeout.
func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
