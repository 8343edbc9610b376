package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (f BookingFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.ProviderID != "" {
		filter["serviceProviderId"] = f.ProviderID
	}
	if f.ServiceID != "" {
		filter["services"] = f.ServiceID
	}
	if f.SubserviceID != "" {
		filter["subservices"] = f.SubserviceID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// List returns a page of bookings sorted by creation time, newest first.
func (r *MongoBookingRepo) List(ctx context.Context, f BookingFilter, page models.PageRequest) ([]models.Booking, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := f.toBSON()
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// CountForProvider counts bookings of a provider in the given statuses.
func (r *MongoBookingRepo) CountForProvider(ctx context.Context, providerID string, statuses []models.BookingStatus) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"serviceProviderId": providerID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for provider %s: %w", providerID, err)
	}
	return n, nil
}

// StatusCountsForProvider groups a provider's bookings by status.
func (r *MongoBookingRepo) StatusCountsForProvider(ctx context.Context, providerID string) ([]models.BookingStatusCount, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"serviceProviderId": providerID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking statuses: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []models.BookingStatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode booking status counts: %w", err)
	}
	return counts, nil
}

// EarningsForProvider sums finalPrice of the provider's completed bookings.
func (r *MongoBookingRepo) EarningsForProvider(ctx context.Context, providerID string) (float64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"serviceProviderId": providerID, "status": models.BookingCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$finalPrice"}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode earnings: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
