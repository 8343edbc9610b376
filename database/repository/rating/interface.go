package ratingRepo

import (
	"context"
	"time"

	"homeserve/models"
)

// RatingFilter narrows rating listings. Empty fields are ignored.
type RatingFilter struct {
	UserID       string
	BookingID    string
	ProviderID   string
	SubserviceID string
	Status       models.RatingStatus
}

// Review is a moderation decision.
type Review struct {
	Status  models.RatingStatus
	AdminID string
	Note    string
	At      time.Time
}

// RatingRepository defines methods for rating data access.
type RatingRepository interface {
	// CreateMany inserts the ratings of one booking in order.
	CreateMany(ctx context.Context, ratings []models.Rating) error
	// GetByID returns the rating or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Rating, error)
	// ExistsForBooking reports whether any rating references the booking.
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	// ApplyReview sets the decision unless the rating is already approved. It
	// returns the updated rating, or nil when no reviewable rating matched.
	ApplyReview(ctx context.Context, id string, rv Review) (*models.Rating, error)
	// UpdatePending rewrites score and feedback of the user's pending rating. It
	// returns nil when the rating is missing, not the user's, or no longer pending.
	UpdatePending(ctx context.Context, id, userID string, stars int, feedback string) (*models.Rating, error)
	// DeletePending removes the user's pending rating and reports whether one matched.
	DeletePending(ctx context.Context, id, userID string) (bool, error)
	// List returns one page of ratings, newest first, plus the total match count.
	List(ctx context.Context, filter RatingFilter, page models.PageRequest) ([]models.Rating, int64, error)
	// ApprovedStarCounts counts approved ratings per (subservice, stars). An empty
	// subserviceID covers every subservice.
	ApprovedStarCounts(ctx context.Context, subserviceID string) ([]models.StarCount, error)
	// ClaimForAggregation flips an approved, unaggregated rating to aggregated.
	// It returns false when the rating was already claimed or is not approved.
	ClaimForAggregation(ctx context.Context, id string, at time.Time) (bool, error)
	// ListUnaggregated returns approved ratings not yet folded into provider stats, oldest first.
	ListUnaggregated(ctx context.Context, limit int) ([]models.Rating, error)
	// CountUnaggregated counts approved ratings not yet folded into provider stats.
	CountUnaggregated(ctx context.Context) (int64, error)
}
