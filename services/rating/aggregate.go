package rating

import (
	"context"
	"errors"

	ratingRepo "homeserve/database/repository/rating"
	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

// Review approves or rejects a rating. An approval is then folded into the
// provider's stats; if that fails the review still stands and the aggregate is
// retried in the background.
func (s *DefaultRatingService) Review(ctx context.Context, id, adminID string, in ReviewInput) (*models.Rating, error) {
	if in.Status != models.RatingApproved && in.Status != models.RatingRejected {
		return nil, utils.NewValidationError("Status must be either approved or rejected")
	}
	if len([]rune(in.ReviewNote)) > models.MaxReviewNote {
		return nil, utils.NewValidationError("Review note must not exceed 200 characters")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	// The write is conditional so that concurrent approvals apply once.
	r, err := s.Repo.ApplyReview(ctx, id, ratingRepo.Review{
		Status:  in.Status,
		AdminID: adminID,
		Note:    in.ReviewNote,
		At:      s.Now(),
	})
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to review rating")
	}
	if r == nil {
		return nil, utils.NewValidationError("Approved ratings cannot be reviewed again")
	}
	s.Logger.Info("rating reviewed", zap.String("ratingID", id), zap.String("status", string(in.Status)))

	if r.Status == models.RatingApproved {
		if s.Cache != nil {
			s.Cache.Invalidate(ctx)
		}
		if s.aggregateOrDefer(ctx, r.ID) {
			now := s.Now()
			r.Aggregated = true
			r.AggregatedAt = &now
		}
	}
	return r, nil
}

// aggregateOrDefer applies the aggregate now or hands it to the queue. It reports
// whether the rating was folded in.
func (s *DefaultRatingService) aggregateOrDefer(ctx context.Context, ratingID string) bool {
	applied, err := s.Aggregate(ctx, ratingID)
	if err == nil {
		return applied
	}
	logger := s.Logger.With(zap.String("ratingID", ratingID))
	logger.Error("rating aggregate failed, deferring", zap.Error(err))
	if s.Queue == nil {
		return false
	}
	if qErr := s.Queue.EnqueueAggregate(ctx, ratingID); qErr != nil {
		logger.Error("failed to enqueue aggregate, left for reconciliation", zap.Error(qErr))
	}
	return false
}

// Aggregate folds an approved rating into its provider's stats exactly once.
// The claim and the stats write commit together, so a retry after a failure
// starts from a clean state. It reports whether stats were changed.
func (s *DefaultRatingService) Aggregate(ctx context.Context, ratingID string) (bool, error) {
	var applied bool
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		applied = false

		r, err := s.Repo.GetByID(ctx, ratingID)
		if err != nil {
			return err
		}
		if r == nil || r.Status != models.RatingApproved || r.Aggregated {
			return nil
		}
		claimed, err := s.Repo.ClaimForAggregation(ctx, ratingID, s.Now())
		if err != nil || !claimed {
			return err
		}
		if r.ProviderID == "" {
			s.Logger.Warn("approved rating has no provider", zap.String("ratingID", ratingID))
			return nil
		}

		stats, err := s.Providers.AddRating(ctx, r.ProviderID, r.Rating)
		if err != nil {
			return err
		}
		if stats == nil {
			s.Logger.Warn("rated provider no longer exists", zap.String("ratingID", ratingID), zap.String("providerID", r.ProviderID))
			return nil
		}
		applied = true
		s.Logger.Info("provider rating updated",
			zap.String("providerID", r.ProviderID),
			zap.String("ratingID", ratingID),
			zap.Float64("average", stats.Average),
			zap.Int("total", stats.TotalRatings),
		)
		return nil
	})
	if err != nil {
		return false, utils.AsDatabaseError(err, "Failed to update provider rating")
	}
	return applied, nil
}

// Reconcile applies every approved rating still missing from provider stats,
// up to the configured batch size.
func (s *DefaultRatingService) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.Repo.ListUnaggregated(ctx, s.Opts.ReconcileBatch)
	if err != nil {
		return 0, utils.AsDatabaseError(err, "Failed to list unaggregated ratings")
	}
	var (
		applied int
		errs    []error
	)
	for _, r := range pending {
		ok, err := s.Aggregate(ctx, r.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			applied++
		}
	}
	if len(pending) > 0 {
		s.Logger.Info("rating reconciliation finished",
			zap.Int("pending", len(pending)),
			zap.Int("applied", applied),
			zap.Int("failed", len(errs)),
		)
	}
	return applied, errors.Join(errs...)
}

// Backlog reports approved ratings not yet in provider stats, oldest review first.
func (s *DefaultRatingService) Backlog(ctx context.Context, limit int) (*models.AggregationBacklog, error) {
	count, err := s.Repo.CountUnaggregated(ctx)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to count unaggregated ratings")
	}
	if limit <= 0 {
		limit = s.Paging.Normalize(models.PageRequest{}).Limit
	}
	items, err := s.Repo.ListUnaggregated(ctx, limit)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to list unaggregated ratings")
	}
	if items == nil {
		items = []models.Rating{}
	}
	return &models.AggregationBacklog{Count: count, Ratings: items}, nil
}

// BacklogCount feeds the health monitor's backlog check.
func (s *DefaultRatingService) BacklogCount(ctx context.Context) (int64, error) {
	return s.Repo.CountUnaggregated(ctx)
}
