package addressRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/database"
	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoAddressRepo implements AddressRepository using MongoDB.
type MongoAddressRepo struct {
	coll *mongo.Collection
}

// NewMongoAddressRepo creates a new instance of AddressRepository using MongoDB.
func NewMongoAddressRepo() AddressRepository {
	repo := &MongoAddressRepo{coll: database.Collection("addresses")}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create address indexes", zap.Error(err))
	}
	return repo
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoAddressRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new address.
func (r *MongoAddressRepo) Create(ctx context.Context, a *models.Address) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// GetByID retrieves an address by ID.
func (r *MongoAddressRepo) GetByID(ctx context.Context, id string) (*models.Address, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var a models.Address
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch address with id %s: %w", id, err)
	}
	return &a, nil
}

// ListForUser returns a page of the user's addresses.
func (r *MongoAddressRepo) ListForUser(ctx context.Context, userID string, page models.PageRequest) ([]models.Address, int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count addresses: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, 0, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addresses, total, nil
}

// Update replaces an address owned by a.UserID.
func (r *MongoAddressRepo) Update(ctx context.Context, a *models.Address) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	a.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": a.ID, "userId": a.UserID}, bson.M{"$set": a})
	if err != nil {
		return fmt.Errorf("failed to update address with id %s: %w", a.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Address not found")
	}
	return nil
}

// Delete removes an address owned by userID.
func (r *MongoAddressRepo) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Address not found")
	}
	return nil
}
