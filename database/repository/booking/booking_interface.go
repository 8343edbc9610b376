package bookingRepo

import (
	"context"

	"homeserve/models"
)

// BookingFilter narrows booking listings. Empty fields are ignored.
type BookingFilter struct {
	UserID       string
	ProviderID   string
	ServiceID    string
	SubserviceID string
	Status       models.BookingStatus
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking.
	Create(ctx context.Context, b *models.Booking) error
	// GetByID returns the booking or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetForUser returns the booking only if it belongs to userID.
	GetForUser(ctx context.Context, id, userID string) (*models.Booking, error)
	// Update replaces the stored booking with b.
	Update(ctx context.Context, b *models.Booking) error
	// Delete removes a booking by id.
	Delete(ctx context.Context, id string) error
	// List returns one page of bookings, newest first, plus the total match count.
	List(ctx context.Context, filter BookingFilter, page models.PageRequest) ([]models.Booking, int64, error)
	// CountForProvider counts the provider's bookings in any of the given statuses.
	CountForProvider(ctx context.Context, providerID string, statuses []models.BookingStatus) (int64, error)
	// StatusCountsForProvider groups the provider's bookings by status.
	StatusCountsForProvider(ctx context.Context, providerID string) ([]models.BookingStatusCount, error)
	// EarningsForProvider sums finalPrice over the provider's completed bookings.
	EarningsForProvider(ctx context.Context, providerID string) (float64, error)
}
