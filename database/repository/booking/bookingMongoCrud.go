package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("Booking already exists")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &b, nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetForUser retrieves a booking by ID scoped to its owner.
func (r *MongoBookingRepo) GetForUser(ctx context.Context, id, userID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id, "userId": userID})
}

// Update modifies an existing booking document.
func (r *MongoBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	b.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": b.ID}, bson.M{"$set": b})
	if err != nil {
		return fmt.Errorf("failed to update booking with id %s: %w", b.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Booking not found")
	}
	return nil
}

// Delete removes a booking document by its ID.
func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Booking not found")
	}
	return nil
}
