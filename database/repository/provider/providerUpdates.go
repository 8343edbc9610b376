package providerRepo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func bucketPath(stars int) string {
	return "rating.distribution." + strconv.Itoa(stars)
}

// addRatingPipeline increments one star bucket and recomputes the total and the
// average from the distribution in the same server-side update. The average is
// rounded half up to two decimals, matching models.RoundTo2.
func addRatingPipeline(stars int, at time.Time) mongo.Pipeline {
	buckets := bson.D{}
	for n := models.MinRating; n <= models.MaxRating; n++ {
		current := bson.M{"$ifNull": bson.A{"$" + bucketPath(n), 0}}
		if n == stars {
			buckets = append(buckets, bson.E{Key: bucketPath(n), Value: bson.M{"$add": bson.A{current, 1}}})
		} else {
			buckets = append(buckets, bson.E{Key: bucketPath(n), Value: current})
		}
	}

	counts := bson.A{}
	weighted := bson.A{}
	for n := models.MinRating; n <= models.MaxRating; n++ {
		counts = append(counts, "$"+bucketPath(n))
		weighted = append(weighted, bson.M{"$multiply": bson.A{"$" + bucketPath(n), n}})
	}
	mean := bson.M{"$divide": bson.A{bson.M{"$add": weighted}, bson.M{"$add": counts}}}
	rounded := bson.M{"$divide": bson.A{
		bson.M{"$floor": bson.M{"$add": bson.A{bson.M{"$multiply": bson.A{mean, 100}}, 0.5}}},
		100,
	}}

	return mongo.Pipeline{
		{{Key: "$set", Value: buckets}},
		{{Key: "$set", Value: bson.D{
			{Key: "rating.totalRatings", Value: bson.M{"$add": counts}},
			{Key: "updatedAt", Value: at},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "rating.average", Value: bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$rating.totalRatings", 0}}, 0.0, rounded,
			}}},
		}}},
	}
}

// AddRating folds one rating into the provider's aggregate atomically and returns
// the new stats. It returns nil stats when the provider does not exist.
func (r *MongoProviderRepo) AddRating(ctx context.Context, id string, stars int) (*models.RatingStats, error) {
	if stars < models.MinRating || stars > models.MaxRating {
		return nil, utils.NewValidationError("Rating must be between 1 and 5")
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"rating": 1})

	var out struct {
		Rating models.RatingStats `bson:"rating"`
	}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, addRatingPipeline(stars, time.Now()), opts).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add rating to provider %s: %w", id, err)
	}
	return &out.Rating, nil
}
