package booking

import (
	"context"

	bookingRepo "homeserve/database/repository/booking"
	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create books the requested services at the client's address.
func (s *DefaultBookingService) Create(ctx context.Context, userID string, in CreateBookingInput) (*models.Booking, error) {
	logger := s.Logger.With(zap.String("userID", userID))

	services, subservices, err := s.resolveCatalog(ctx, in.Services, in.Subservices)
	if err != nil {
		return nil, err
	}
	if in.AddressID == "" {
		return nil, utils.NewValidationError("Address is required")
	}
	if err := s.checkAddress(ctx, in.AddressID, userID); err != nil {
		return nil, err
	}
	day, err := futureSchedule(in.Date, in.Time, s.Opts.Location, s.Now(), msgPastBooking)
	if err != nil {
		return nil, err
	}
	if err := checkAmounts(in.Discount, in.FinalPrice); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		Services:    services,
		Subservices: subservices,
		AddressID:   in.AddressID,
		Date:        day,
		Time:        in.Time,
		Status:      models.BookingPending,
		Discount:    in.Discount,
		FinalPrice:  in.FinalPrice,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		logger.Error("failed to create booking", zap.Error(err))
		return nil, utils.AsDatabaseError(err, "Failed to create booking")
	}
	logger.Info("booking created", zap.String("bookingID", b.ID))
	return b, nil
}

// GetByID returns any booking. Admin only.
func (s *DefaultBookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch booking")
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking not found")
	}
	return b, nil
}

// GetForUser returns the booking only when userID owns it.
func (s *DefaultBookingService) GetForUser(ctx context.Context, id, userID string) (*models.Booking, error) {
	b, err := s.Repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch booking")
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking not found")
	}
	return b, nil
}

func (s *DefaultBookingService) list(ctx context.Context, f bookingRepo.BookingFilter, page models.PageRequest) (models.Page[models.Booking], error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.Booking]{}, utils.NewValidationError("Invalid booking status")
	}
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.List(ctx, f, page)
	if err != nil {
		return models.Page[models.Booking]{}, utils.AsDatabaseError(err, "Failed to fetch bookings")
	}
	return models.NewPage(items, total, page), nil
}

func (s *DefaultBookingService) ListAll(ctx context.Context, status models.BookingStatus, page models.PageRequest) (models.Page[models.Booking], error) {
	return s.list(ctx, bookingRepo.BookingFilter{Status: status}, page)
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string, status models.BookingStatus, page models.PageRequest) (models.Page[models.Booking], error) {
	return s.list(ctx, bookingRepo.BookingFilter{UserID: userID, Status: status}, page)
}

// ListByService returns bookings that include the service.
func (s *DefaultBookingService) ListByService(ctx context.Context, serviceID string, page models.PageRequest) (models.Page[models.Booking], error) {
	return s.list(ctx, bookingRepo.BookingFilter{ServiceID: serviceID}, page)
}

// ListBySubservice returns bookings that include the subservice.
func (s *DefaultBookingService) ListBySubservice(ctx context.Context, subserviceID string, page models.PageRequest) (models.Page[models.Booking], error) {
	return s.list(ctx, bookingRepo.BookingFilter{SubserviceID: subserviceID}, page)
}
