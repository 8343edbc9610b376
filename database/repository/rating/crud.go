package ratingRepo

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

// CreateMany inserts ratings with an ordered insert.
func (r *MongoRatingRepo) CreateMany(ctx context.Context, ratings []models.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, len(ratings))
	for i := range ratings {
		ratings[i].CreatedAt = now
		ratings[i].UpdatedAt = now
		docs[i] = ratings[i]
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("Rating already exists for this booking")
		}
		return fmt.Errorf("failed to create ratings: %w", err)
	}
	return nil
}

// GetByID retrieves a rating by its unique ID.
func (r *MongoRatingRepo) GetByID(ctx context.Context, id string) (*models.Rating, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var rating models.Rating
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rating); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rating with id %s: %w", id, err)
	}
	return &rating, nil
}

// ExistsForBooking reports whether the booking has been rated.
func (r *MongoRatingRepo) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"booking": bookingID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check ratings for booking %s: %w", bookingID, err)
	}
	return n > 0, nil
}

func pendingOf(id, userID string) bson.M {
	return bson.M{"id": id, "user": userID, "status": models.RatingPending}
}

// reviewableFilter matches a rating that has not been approved yet.
func reviewableFilter(id string) bson.M {
	return bson.M{"id": id, "status": bson.M{"$ne": models.RatingApproved}}
}

func reviewUpdate(rv Review) bson.M {
	set := bson.M{
		"status":     rv.Status,
		"reviewedBy": rv.AdminID,
		"reviewedAt": rv.At,
		"updatedAt":  rv.At,
	}
	update := bson.M{"$set": set}
	if rv.Note != "" {
		set["reviewNote"] = rv.Note
	} else {
		update["$unset"] = bson.M{"reviewNote": ""}
	}
	return update
}

func (r *MongoRatingRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Rating, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var rating models.Rating
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rating); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// ApplyReview records a moderation decision on a rating that is not approved yet.
func (r *MongoRatingRepo) ApplyReview(ctx context.Context, id string, rv Review) (*models.Rating, error) {
	rating, err := r.findOneAndUpdate(ctx, reviewableFilter(id), reviewUpdate(rv))
	if err != nil {
		return nil, fmt.Errorf("failed to review rating with id %s: %w", id, err)
	}
	return rating, nil
}

// UpdatePending changes the score and feedback of the user's pending rating.
func (r *MongoRatingRepo) UpdatePending(ctx context.Context, id, userID string, stars int, feedback string) (*models.Rating, error) {
	update := bson.M{"$set": bson.M{
		"rating":    stars,
		"feedback":  feedback,
		"updatedAt": time.Now(),
	}}
	rating, err := r.findOneAndUpdate(ctx, pendingOf(id, userID), update)
	if err != nil {
		return nil, fmt.Errorf("failed to update rating with id %s: %w", id, err)
	}
	return rating, nil
}

// DeletePending removes the user's rating while it is still pending.
func (r *MongoRatingRepo) DeletePending(ctx context.Context, id, userID string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, pendingOf(id, userID))
	if err != nil {
		return false, fmt.Errorf("failed to delete rating with id %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}
