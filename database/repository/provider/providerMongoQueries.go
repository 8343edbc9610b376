package providerRepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (f ProviderFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ServiceID != "" {
		filter["services"] = f.ServiceID
	}
	if f.SubserviceID != "" {
		filter["subservices"] = f.SubserviceID
	}

	var and []bson.M
	switch f.VerificationStatus {
	case VerificationVerified:
		filter["aadhaarCard.verified"] = true
		filter["panCard.verified"] = true
	case VerificationPending:
		and = append(and, bson.M{"$or": []bson.M{
			{"aadhaarCard.verified": false},
			{"panCard.verified": false},
		}})
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"name": re},
			{"email": re},
			{"phoneNumber": re},
			{"aadhaarCard.number": re},
			{"panCard.number": re},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter
}

func (f MatchFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["status"] = models.ProviderActive
	}
	if len(f.Services) > 0 {
		filter["services"] = bson.M{"$all": f.Services}
	}
	if len(f.Subservices) > 0 {
		filter["subservices"] = bson.M{"$all": f.Subservices}
	}
	if f.Day != "" && f.Time != "" {
		prefix := "availability." + f.Day
		filter[prefix+".available"] = true
		filter[prefix+".start"] = bson.M{"$lte": f.Time}
		filter[prefix+".end"] = bson.M{"$gte": f.Time}
	}
	return filter
}

// List returns a page of providers, newest first.
func (r *MongoProviderRepo) List(ctx context.Context, f ProviderFilter, page models.PageRequest) ([]models.ServiceProvider, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := f.toBSON()
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.ServiceProvider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, total, nil
}

// FindConflicts looks up providers that already use any of the given unique values.
func (r *MongoProviderRepo) FindConflicts(ctx context.Context, fields UniqueFields, excludeID string) ([]models.ServiceProvider, error) {
	var or []bson.M
	if fields.PhoneNumber != "" {
		or = append(or, bson.M{"phoneNumber": fields.PhoneNumber})
	}
	if fields.Email != "" {
		or = append(or, bson.M{"email": fields.Email})
	}
	if fields.Aadhaar != "" {
		or = append(or, bson.M{"aadhaarCard.number": fields.Aadhaar})
	}
	if fields.PAN != "" {
		or = append(or, bson.M{"panCard.number": fields.PAN})
	}
	if len(or) == 0 {
		return nil, nil
	}

	filter := bson.M{"$or": or}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{
		"id": 1, "phoneNumber": 1, "email": 1, "aadhaarCard.number": 1, "panCard.number": 1,
	})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to check provider uniqueness: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.ServiceProvider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}

// FindForMatching returns providers satisfying the filter, best rated first.
func (r *MongoProviderRepo) FindForMatching(ctx context.Context, f MatchFilter) ([]models.ServiceProvider, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "rating.average", Value: -1},
		{Key: "rating.totalRatings", Value: -1},
	})
	cursor, err := r.coll.Find(ctx, f.toBSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find matching providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.ServiceProvider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}
