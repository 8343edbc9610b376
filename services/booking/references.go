package booking

import (
	"context"

	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveCatalog checks that every id exists and each subservice belongs to one of the services.
func (s *DefaultBookingService) resolveCatalog(ctx context.Context, services, subservices []string) ([]string, []string, error) {
	services, subservices = unique(services), unique(subservices)
	if len(services) == 0 {
		return nil, nil, utils.NewValidationError("At least one service is required")
	}
	if len(subservices) == 0 {
		return nil, nil, utils.NewValidationError("At least one subservice is required")
	}

	foundServices, err := s.Catalog.FindServicesByIDs(ctx, services)
	if err != nil {
		return nil, nil, utils.AsDatabaseError(err, "Failed to fetch services")
	}
	if len(foundServices) != len(services) {
		return nil, nil, utils.NewNotFoundError("One or more services not found")
	}

	foundSubs, err := s.Catalog.FindSubservicesByIDs(ctx, subservices)
	if err != nil {
		return nil, nil, utils.AsDatabaseError(err, "Failed to fetch subservices")
	}
	if len(foundSubs) != len(subservices) {
		return nil, nil, utils.NewNotFoundError("One or more subservices not found")
	}

	allowed := make(map[string]struct{}, len(services))
	for _, id := range services {
		allowed[id] = struct{}{}
	}
	for _, sub := range foundSubs {
		if _, ok := allowed[sub.ServiceID]; !ok {
			return nil, nil, utils.NewValidationError("Subservice " + sub.Name + " does not belong to the selected services")
		}
	}
	return services, subservices, nil
}

// checkAddress requires the address to exist and belong to userID.
func (s *DefaultBookingService) checkAddress(ctx context.Context, addressID, userID string) error {
	a, err := s.Addresses.GetByID(ctx, addressID)
	if err != nil {
		return utils.AsDatabaseError(err, "Failed to fetch address")
	}
	if a == nil {
		return utils.NewNotFoundError("Address not found")
	}
	if a.UserID != userID {
		return utils.NewValidationError("Address does not belong to user")
	}
	return nil
}

func checkAmounts(discount, finalPrice float64) error {
	if discount < 0 {
		return utils.NewValidationError("Discount cannot be negative")
	}
	if finalPrice < 0 {
		return utils.NewValidationError("Final price cannot be negative")
	}
	return nil
}

// publish hands an event to the worker. Failures are logged, never returned.
func (s *DefaultBookingService) publish(ctx context.Context, b *models.Booking, event, message string) {
	if s.Events == nil || !s.Opts.NotifyChanges {
		return
	}
	err := s.Events.PublishBookingEvent(ctx, models.BookingEventPayload{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ProviderID: b.ProviderID,
		Event:      event,
		Message:    message,
	})
	if err != nil {
		s.Logger.Warn("failed to publish booking event", zap.String("bookingID", b.ID), zap.String("event", event), zap.Error(err))
	}
}
