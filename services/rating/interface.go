package rating

import (
	"context"
	"fmt"
	"time"

	"homeserve/database"
	ratingRepo "homeserve/database/repository/rating"
	"homeserve/models"

	"go.uber.org/zap"
)

// RatingService manages client ratings and their moderation.
type RatingService interface {
	Create(ctx context.Context, bookingID, userID string, in CreateRatingInput) ([]models.Rating, error)
	GetByID(ctx context.Context, id string) (*models.Rating, error)
	ListForUser(ctx context.Context, userID string, status models.RatingStatus, page models.PageRequest) (models.Page[models.Rating], error)
	ListPending(ctx context.Context, page models.PageRequest) (models.Page[models.Rating], error)
	ListAll(ctx context.Context, status models.RatingStatus, page models.PageRequest) (models.Page[models.Rating], error)
	Update(ctx context.Context, id, userID string, patch RatingPatch) (*models.Rating, error)
	Delete(ctx context.Context, id, userID string) error

	Review(ctx context.Context, id, adminID string, in ReviewInput) (*models.Rating, error)
	AverageForSubservice(ctx context.Context, subserviceID string) (*models.SubserviceRatingSummary, error)
	AveragesForAllSubservices(ctx context.Context) ([]models.SubserviceRatingSummary, error)

	Aggregate(ctx context.Context, ratingID string) (bool, error)
	Reconcile(ctx context.Context) (int, error)
	Backlog(ctx context.Context, limit int) (*models.AggregationBacklog, error)
}

// BookingLookup loads the booking being rated.
type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// ProviderStatsStore folds ratings into a provider's aggregate.
type ProviderStatsStore interface {
	AddRating(ctx context.Context, id string, stars int) (*models.RatingStats, error)
}

// SubserviceLookup resolves rated subservices.
type SubserviceLookup interface {
	FindSubservicesByIDs(ctx context.Context, ids []string) ([]models.Subservice, error)
}

// AggregateQueue defers a failed aggregate to the background worker.
type AggregateQueue interface {
	EnqueueAggregate(ctx context.Context, ratingID string) error
}

// Options carries rating settings taken from configuration.
type Options struct {
	// RequireCompletedBooking only accepts ratings for completed bookings with a provider.
	RequireCompletedBooking bool
	// ReconcileBatch caps how many pending aggregates one sweep applies.
	ReconcileBatch int
}

// CreateRatingInput is the body of a new rating. It applies to every subservice of the booking.
type CreateRatingInput struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"required,min=10,max=500"`
}

// RatingPatch holds the fields an author may change on a pending rating.
type RatingPatch struct {
	Rating   *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback" binding:"omitempty,min=10,max=500"`
}

// ReviewInput is an admin moderation decision.
type ReviewInput struct {
	Status     models.RatingStatus `json:"status" binding:"required,oneof=approved rejected"`
	ReviewNote string              `json:"reviewNote" binding:"max=200"`
}

// DefaultRatingService is the production implementation.
type DefaultRatingService struct {
	Repo      ratingRepo.RatingRepository
	Bookings  BookingLookup
	Providers ProviderStatsStore
	Catalog   SubserviceLookup
	Tx        database.TxRunner
	Queue     AggregateQueue
	Cache     SummaryCache // Optional
	Opts      Options
	Paging    models.PagingDefaults
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewRatingService(
	repo ratingRepo.RatingRepository,
	bookings BookingLookup,
	providers ProviderStatsStore,
	catalog SubserviceLookup,
	tx database.TxRunner,
	queue AggregateQueue,
	opts Options,
	paging models.PagingDefaults,
	logger *zap.Logger,
) (*DefaultRatingService, error) {
	if repo == nil || bookings == nil || providers == nil || catalog == nil {
		return nil, fmt.Errorf("rating service initialization error: one or more dependencies are nil")
	}
	if tx == nil {
		tx = database.NoTx{}
	}
	if opts.ReconcileBatch <= 0 {
		opts.ReconcileBatch = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultRatingService{
		Repo:      repo,
		Bookings:  bookings,
		Providers: providers,
		Catalog:   catalog,
		Tx:        tx,
		Queue:     queue,
		Opts:      opts,
		Paging:    paging,
		Logger:    logger,
		Now:       time.Now,
	}, nil
}
