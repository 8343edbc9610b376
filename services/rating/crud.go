package rating

import (
	"context"
	"strings"
	"unicode/utf8"

	ratingRepo "homeserve/database/repository/rating"
	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validateScore(stars int, feedback string) error {
	if stars < models.MinRating || stars > models.MaxRating {
		return utils.NewValidationError("Rating must be between 1 and 5")
	}
	n := utf8.RuneCountInString(feedback)
	if n < models.MinFeedbackLength {
		return utils.NewValidationError("Feedback must be at least 10 characters long")
	}
	if n > models.MaxFeedbackLength {
		return utils.NewValidationError("Feedback must not exceed 500 characters")
	}
	return nil
}

// Create rates every subservice of the booking with the same score. Ratings start pending.
func (s *DefaultRatingService) Create(ctx context.Context, bookingID, userID string, in CreateRatingInput) ([]models.Rating, error) {
	logger := s.Logger.With(zap.String("bookingID", bookingID), zap.String("userID", userID))

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch booking")
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking not found")
	}
	if b.UserID != userID {
		return nil, utils.NewValidationError("You can only rate your own bookings")
	}
	if s.Opts.RequireCompletedBooking {
		if b.Status != models.BookingCompleted {
			return nil, utils.NewValidationError("Rating can only be created for completed bookings")
		}
		if b.ProviderID == "" {
			return nil, utils.NewValidationError("Booking has no assigned service provider")
		}
	}

	exists, err := s.Repo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to check existing ratings")
	}
	if exists {
		return nil, utils.NewValidationError("Rating already exists for this booking")
	}

	feedback := strings.TrimSpace(in.Feedback)
	if err := validateScore(in.Rating, feedback); err != nil {
		return nil, err
	}

	subs, err := s.Catalog.FindSubservicesByIDs(ctx, b.Subservices)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch subservices")
	}
	byID := make(map[string]models.Subservice, len(subs))
	for _, sub := range subs {
		byID[sub.ID] = sub
	}

	ratings := make([]models.Rating, 0, len(b.Subservices))
	for _, subID := range b.Subservices {
		sub, ok := byID[subID]
		if !ok {
			logger.Warn("subservice not found for rating", zap.String("subserviceID", subID))
			continue
		}
		ratings = append(ratings, models.Rating{
			ID:           uuid.New().String(),
			BookingID:    bookingID,
			UserID:       userID,
			ProviderID:   b.ProviderID,
			SubserviceID: subID,
			ServiceID:    sub.ServiceID,
			Rating:       in.Rating,
			Feedback:     feedback,
			Status:       models.RatingPending,
		})
	}
	if len(ratings) == 0 {
		return nil, utils.NewValidationError("No ratable subservices found for this booking")
	}

	if err := s.Repo.CreateMany(ctx, ratings); err != nil {
		logger.Error("failed to create ratings", zap.Error(err))
		return nil, utils.AsDatabaseError(err, "Failed to create rating")
	}
	logger.Info("ratings created", zap.Int("count", len(ratings)))
	return ratings, nil
}

func (s *DefaultRatingService) GetByID(ctx context.Context, id string) (*models.Rating, error) {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch rating")
	}
	if r == nil {
		return nil, utils.NewNotFoundError("Rating not found")
	}
	return r, nil
}

// ownPending loads a rating the user wrote that is still awaiting review.
func (s *DefaultRatingService) ownPending(ctx context.Context, id, userID, verb string) (*models.Rating, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, utils.NewValidationError("You can only " + verb + " your own ratings")
	}
	if r.Status != models.RatingPending {
		return nil, utils.NewValidationError("Cannot " + verb + " approved or rejected ratings")
	}
	return r, nil
}

// Update changes the score or feedback of the author's pending rating.
func (s *DefaultRatingService) Update(ctx context.Context, id, userID string, patch RatingPatch) (*models.Rating, error) {
	r, err := s.ownPending(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	if patch.Feedback != nil {
		r.Feedback = strings.TrimSpace(*patch.Feedback)
	}
	if err := validateScore(r.Rating, r.Feedback); err != nil {
		return nil, err
	}
	updated, err := s.Repo.UpdatePending(ctx, id, userID, r.Rating, r.Feedback)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update rating")
	}
	if updated == nil {
		return nil, utils.NewValidationError("Cannot update approved or rejected ratings")
	}
	s.Logger.Info("rating updated", zap.String("ratingID", id))
	return updated, nil
}

// Delete removes the author's pending rating.
func (s *DefaultRatingService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.ownPending(ctx, id, userID, "delete"); err != nil {
		return err
	}
	deleted, err := s.Repo.DeletePending(ctx, id, userID)
	if err != nil {
		return utils.AsDatabaseError(err, "Failed to delete rating")
	}
	if !deleted {
		return utils.NewValidationError("Cannot delete approved or rejected ratings")
	}
	s.Logger.Info("rating deleted", zap.String("ratingID", id))
	return nil
}

func (s *DefaultRatingService) list(ctx context.Context, f ratingRepo.RatingFilter, page models.PageRequest) (models.Page[models.Rating], error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.Rating]{}, utils.NewValidationError("Invalid rating status")
	}
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.List(ctx, f, page)
	if err != nil {
		return models.Page[models.Rating]{}, utils.AsDatabaseError(err, "Failed to fetch ratings")
	}
	return models.NewPage(items, total, page), nil
}

func (s *DefaultRatingService) ListForUser(ctx context.Context, userID string, status models.RatingStatus, page models.PageRequest) (models.Page[models.Rating], error) {
	return s.list(ctx, ratingRepo.RatingFilter{UserID: userID, Status: status}, page)
}

func (s *DefaultRatingService) ListPending(ctx context.Context, page models.PageRequest) (models.Page[models.Rating], error) {
	return s.list(ctx, ratingRepo.RatingFilter{Status: models.RatingPending}, page)
}

func (s *DefaultRatingService) ListAll(ctx context.Context, status models.RatingStatus, page models.PageRequest) (models.Page[models.Rating], error) {
	return s.list(ctx, ratingRepo.RatingFilter{Status: status}, page)
}
