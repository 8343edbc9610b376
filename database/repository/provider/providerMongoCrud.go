package providerRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateKeyMessages maps unique index names to user-facing conflict messages.
var duplicateKeyMessages = []struct {
	index   string
	message string
}{
	{"uniq_phone", "Phone number already registered"},
	{"uniq_email", "Email already registered"},
	{"uniq_aadhaar", "Aadhaar card number already registered"},
	{"uniq_pan", "PAN card number already registered"},
}

// conflictFromWriteError translates a duplicate-key failure into a conflict error.
func conflictFromWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	for _, d := range duplicateKeyMessages {
		if strings.Contains(err.Error(), d.index) {
			return utils.NewConflictError(d.message)
		}
	}
	return utils.NewConflictError("Service provider already exists")
}

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(ctx context.Context, p *models.ServiceProvider) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if conflict := conflictFromWriteError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

// GetByID retrieves a provider by its unique ID.
func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.ServiceProvider, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var p models.ServiceProvider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &p, nil
}

// profileUpdate is the $set document for a profile write. The rating aggregate
// and creation time are owned by other writers and never overwritten here.
func profileUpdate(p *models.ServiceProvider) (bson.M, error) {
	raw, err := bson.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	delete(doc, "rating")
	delete(doc, "createdAt")
	return doc, nil
}

// Update writes the provider's profile fields. The rating aggregate is left untouched.
func (r *MongoProviderRepo) Update(ctx context.Context, p *models.ServiceProvider) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	p.UpdatedAt = time.Now()
	doc, err := profileUpdate(p)
	if err != nil {
		return fmt.Errorf("failed to encode provider %s: %w", p.ID, err)
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": doc})
	if err != nil {
		if conflict := conflictFromWriteError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to update provider with id %s: %w", p.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Service provider not found")
	}
	return nil
}

// Delete removes a provider document by its ID.
func (r *MongoProviderRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete provider with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Service provider not found")
	}
	return nil
}
