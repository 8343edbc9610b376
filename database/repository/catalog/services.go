package catalogRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateService inserts a new service.
func (r *MongoCatalogRepo) CreateService(ctx context.Context, s *models.Service) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if _, err := r.services.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("Service already exists")
		}
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// GetService retrieves a service by ID or nil.
func (r *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var s models.Service
	if err := r.services.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch service with id %s: %w", id, err)
	}
	return &s, nil
}

// UpdateService replaces the stored service.
func (r *MongoCatalogRepo) UpdateService(ctx context.Context, s *models.Service) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	s.UpdatedAt = time.Now()
	result, err := r.services.UpdateOne(ctx, bson.M{"id": s.ID}, bson.M{"$set": s})
	if err != nil {
		return fmt.Errorf("failed to update service with id %s: %w", s.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Service not found")
	}
	return nil
}

// DeleteService removes a service.
func (r *MongoCatalogRepo) DeleteService(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.services.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Service not found")
	}
	return nil
}

func serviceSearchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	return bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
}

// ListServices returns services sorted by name.
func (r *MongoCatalogRepo) ListServices(ctx context.Context, search string, page models.PageRequest) ([]models.Service, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := serviceSearchFilter(search)
	total, err := r.services.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.services.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, total, nil
}

// FindServicesByIDs returns existing services among ids.
func (r *MongoCatalogRepo) FindServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}
