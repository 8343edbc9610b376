package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSubservice inserts a new subservice.
func (r *MongoCatalogRepo) CreateSubservice(ctx context.Context, s *models.Subservice) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if _, err := r.subservices.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("Subservice already exists")
		}
		return fmt.Errorf("failed to create subservice: %w", err)
	}
	return nil
}

// GetSubservice retrieves a subservice by ID or nil.
func (r *MongoCatalogRepo) GetSubservice(ctx context.Context, id string) (*models.Subservice, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var s models.Subservice
	if err := r.subservices.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch subservice with id %s: %w", id, err)
	}
	return &s, nil
}

// UpdateSubservice replaces the stored subservice.
func (r *MongoCatalogRepo) UpdateSubservice(ctx context.Context, s *models.Subservice) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	s.UpdatedAt = time.Now()
	result, err := r.subservices.UpdateOne(ctx, bson.M{"id": s.ID}, bson.M{"$set": s})
	if err != nil {
		return fmt.Errorf("failed to update subservice with id %s: %w", s.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Subservice not found")
	}
	return nil
}

// DeleteSubservice removes a subservice.
func (r *MongoCatalogRepo) DeleteSubservice(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.subservices.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subservice with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Subservice not found")
	}
	return nil
}

// ListSubservices returns subservices sorted by name.
func (r *MongoCatalogRepo) ListSubservices(ctx context.Context, serviceID string, page models.PageRequest) ([]models.Subservice, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if serviceID != "" {
		filter["serviceId"] = serviceID
	}
	total, err := r.subservices.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subservices: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.subservices.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve subservices: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subservice
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode subservices: %w", err)
	}
	return subs, total, nil
}

// FindSubservicesByIDs returns existing subservices among ids.
func (r *MongoCatalogRepo) FindSubservicesByIDs(ctx context.Context, ids []string) ([]models.Subservice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.subservices.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subservices: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subservice
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subservices: %w", err)
	}
	return subs, nil
}
