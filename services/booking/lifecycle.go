package booking

import (
	"context"
	"fmt"

	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

// Update applies a patch. Clients may edit their own pending bookings; admins may
// edit any booking and move its status along the state machine.
func (s *DefaultBookingService) Update(ctx context.Context, id string, caller models.Principal, patch AdminBookingPatch) (*models.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	admin := caller.IsAdmin()
	if !admin {
		if b.UserID != caller.ID {
			return nil, utils.NewAuthorizationError("You are not authorized to update this booking")
		}
		if patch.hasAdminFields() {
			return nil, utils.NewAuthorizationError("Only admins can change status or pricing")
		}
		if b.Status != models.BookingPending {
			return nil, utils.NewValidationError("Only pending bookings can be updated")
		}
	}

	if patch.Services != nil || patch.Subservices != nil {
		services, subservices := b.Services, b.Subservices
		if patch.Services != nil {
			services = patch.Services
		}
		if patch.Subservices != nil {
			subservices = patch.Subservices
		}
		if b.Services, b.Subservices, err = s.resolveCatalog(ctx, services, subservices); err != nil {
			return nil, err
		}
	}

	if patch.AddressID != nil {
		if err := s.checkAddress(ctx, *patch.AddressID, b.UserID); err != nil {
			return nil, err
		}
		b.AddressID = *patch.AddressID
	}

	if patch.Date != nil || patch.Time != nil {
		date, hhmm := b.Date.In(s.Opts.Location).Format(dateLayout), b.Time
		if patch.Date != nil {
			date = *patch.Date
		}
		if patch.Time != nil {
			hhmm = *patch.Time
		}
		day, err := futureSchedule(date, hhmm, s.Opts.Location, s.Now(), msgPastBooking)
		if err != nil {
			return nil, err
		}
		b.Date, b.Time = day, hhmm
	}

	if patch.Discount != nil {
		b.Discount = *patch.Discount
	}
	if patch.FinalPrice != nil {
		b.FinalPrice = *patch.FinalPrice
	}
	if err := checkAmounts(b.Discount, b.FinalPrice); err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != b.Status {
		if err := s.transition(b, *patch.Status); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update booking")
	}
	s.Logger.Info("booking updated", zap.String("bookingID", b.ID), zap.String("by", caller.ID), zap.Bool("admin", admin))
	return b, nil
}

// transition moves b to next if the state machine allows it.
func (s *DefaultBookingService) transition(b *models.Booking, next models.BookingStatus) error {
	if !next.Valid() {
		return utils.NewValidationError("Invalid booking status")
	}
	if !models.CanTransition(b.Status, next) {
		return utils.NewValidationError(fmt.Sprintf("Cannot change booking status from %s to %s", b.Status, next))
	}
	b.Status = next
	if next == models.BookingCancelled {
		now := s.Now()
		b.CancelledAt = &now
	}
	return nil
}

// ownedBooking loads a booking and requires userID to own it.
func (s *DefaultBookingService) ownedBooking(ctx context.Context, id, userID, action string) (*models.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, utils.NewAuthorizationError("You are not authorized to " + action + " this booking")
	}
	return b, nil
}

// Reschedule moves an active booking to a new future date and time.
func (s *DefaultBookingService) Reschedule(ctx context.Context, id, userID, date, hhmm string) (*models.Booking, error) {
	if date == "" || hhmm == "" {
		return nil, utils.NewValidationError("Date and time are required")
	}
	b, err := s.ownedBooking(ctx, id, userID, "reschedule")
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, utils.NewValidationError(fmt.Sprintf("Cannot reschedule a %s booking", b.Status))
	}
	day, err := futureSchedule(date, hhmm, s.Opts.Location, s.Now(), msgPastReschedule)
	if err != nil {
		return nil, err
	}

	b.Date, b.Time = day, hhmm
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to reschedule booking")
	}
	s.Logger.Info("booking rescheduled", zap.String("bookingID", b.ID), zap.String("date", date), zap.String("time", hhmm))
	s.publish(ctx, b, models.BookingEventRescheduled, fmt.Sprintf("Booking %s moved to %s %s", b.ID, date, hhmm))
	return b, nil
}

// Cancel cancels an active booking owned by userID.
func (s *DefaultBookingService) Cancel(ctx context.Context, id, userID, reason string) (*models.Booking, error) {
	b, err := s.ownedBooking(ctx, id, userID, "cancel")
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.BookingCancelled:
		return nil, utils.NewValidationError("Booking is already cancelled")
	case models.BookingCompleted:
		return nil, utils.NewValidationError("Cannot cancel a completed booking")
	}
	if err := s.transition(b, models.BookingCancelled); err != nil {
		return nil, err
	}
	b.CancellationReason = reason

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to cancel booking")
	}
	s.Logger.Info("booking cancelled", zap.String("bookingID", b.ID), zap.String("reason", reason))
	s.publish(ctx, b, models.BookingEventCancelled, fmt.Sprintf("Booking %s was cancelled", b.ID))
	return b, nil
}

// Delete removes a booking. Admins may delete any booking; owners only pending or cancelled ones.
func (s *DefaultBookingService) Delete(ctx context.Context, id string, caller models.Principal) error {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		if b.UserID != caller.ID {
			return utils.NewAuthorizationError("You are not authorized to delete this booking")
		}
		if b.Status != models.BookingPending && b.Status != models.BookingCancelled {
			return utils.NewValidationError("Only pending or cancelled bookings can be deleted")
		}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.AsDatabaseError(err, "Failed to delete booking")
	}
	s.Logger.Info("booking deleted", zap.String("bookingID", id), zap.String("by", caller.ID))
	return nil
}
