package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

// AvailableProviders lists candidates for a booking, best rated first. Without
// capability enforcement every provider is a candidate.
func (s *DefaultProviderService) AvailableProviders(ctx context.Context, in AvailabilityCriteria) ([]models.ServiceProvider, error) {
	var filter providerRepo.MatchFilter
	if s.Opts.EnforceCapability {
		filter = providerRepo.MatchFilter{
			Services:    unique(in.Services),
			Subservices: unique(in.Subservices),
			ActiveOnly:  true,
		}
		if in.Date != "" && in.Time != "" {
			day, err := time.ParseInLocation("2006-01-02", in.Date, s.Opts.Location)
			if err != nil {
				return nil, utils.NewValidationError("Invalid date format, expected YYYY-MM-DD")
			}
			if !utils.ValidHHMM(in.Time) {
				return nil, utils.NewValidationError("Invalid time format, expected HH:MM")
			}
			filter.Day = models.WeekdayKey(day)
			filter.Time = in.Time
		}
	}

	providers, err := s.Repo.FindForMatching(ctx, filter)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to find available service providers")
	}
	sort.SliceStable(providers, func(i, j int) bool {
		a, b := providers[i].Rating, providers[j].Rating
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.TotalRatings > b.TotalRatings
	})
	if providers == nil {
		providers = []models.ServiceProvider{}
	}
	s.Logger.Info("available service providers found",
		zap.Int("count", len(providers)),
		zap.Bool("enforced", s.Opts.EnforceCapability),
	)
	return providers, nil
}

// AssignToBooking attaches a provider to an open booking. The provider record is not changed.
func (s *DefaultProviderService) AssignToBooking(ctx context.Context, providerID, bookingID, adminID string) (*models.Booking, error) {
	logger := s.Logger.With(zap.String("providerID", providerID), zap.String("bookingID", bookingID))

	p, err := s.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch booking")
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking not found")
	}
	if b.Status.Terminal() {
		return nil, utils.NewValidationError(fmt.Sprintf("Cannot assign a provider to a %s booking", b.Status))
	}

	if s.Opts.EnforceCapability {
		if p.Status != models.ProviderActive {
			return nil, utils.NewValidationError("Service provider is not active")
		}
		if !p.CanHandle(b.Services, b.Subservices) {
			return nil, utils.NewValidationError("Service provider cannot handle all required services")
		}
		if !p.IsAvailable(models.WeekdayKey(b.Date.In(s.Opts.Location)), b.Time) {
			return nil, utils.NewValidationError("Service provider is not available at the specified time")
		}
	}

	now := s.Now()
	b.ProviderID = p.ID
	b.AssignedAt = &now
	b.AssignedBy = adminID
	if err := s.Bookings.Update(ctx, b); err != nil {
		logger.Error("failed to assign provider", zap.Error(err))
		return nil, utils.AsDatabaseError(err, "Failed to assign service provider")
	}
	logger.Info("service provider assigned", zap.String("adminID", adminID))

	if s.Events != nil {
		err := s.Events.PublishBookingEvent(ctx, models.BookingEventPayload{
			BookingID:  b.ID,
			UserID:     b.UserID,
			ProviderID: p.ID,
			Event:      models.BookingEventAssigned,
			Message:    fmt.Sprintf("%s has been assigned to your booking on %s at %s", p.Name, b.Date.In(s.Opts.Location).Format("2006-01-02"), b.Time),
		})
		if err != nil {
			logger.Warn("failed to publish assignment", zap.Error(err))
		}
	}
	return b, nil
}

// Stats summarises a provider's bookings and earnings.
func (s *DefaultProviderService) Stats(ctx context.Context, id string) (*models.ProviderStats, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.Bookings.StatusCountsForProvider(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch provider bookings")
	}
	earnings, err := s.Bookings.EarningsForProvider(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch provider earnings")
	}

	stats := &models.ProviderStats{
		ProviderID: id,
		ByStatus:   make(map[models.BookingStatus]int64, len(counts)),
		Earnings:   earnings,
		Rating:     p.Rating,
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		stats.TotalBookings += c.Count
	}
	return stats, nil
}
