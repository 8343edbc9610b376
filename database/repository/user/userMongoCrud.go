package userRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByPhone retrieves a user by phone number.
func (r *MongoUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"phoneNumber": phone})
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

// duplicateMessage names the unique field a write collided on.
func duplicateMessage(err error) string {
	if strings.Contains(err.Error(), "uniq_phone") {
		return "Phone number already registered"
	}
	return "Email already registered"
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError(duplicateMessage(err))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies an existing user document.
func (r *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	user.UpdatedAt = time.Now()
	user.Email = strings.ToLower(user.Email)

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": user.ID}, bson.M{"$set": user})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError(duplicateMessage(err))
		}
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("User not found")
	}
	return nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("User not found")
	}
	return nil
}

// ListByRole returns a page of users with the given role.
func (r *MongoUserRepo) ListByRole(ctx context.Context, role string, page models.PageRequest) ([]models.User, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"role": role}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"passwordHash": 0})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, total, nil
}
