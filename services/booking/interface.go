package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "homeserve/database/repository/booking"
	"homeserve/models"

	"go.uber.org/zap"
)

// BookingService manages the booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, userID string, in CreateBookingInput) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Booking, error)
	ListAll(ctx context.Context, status models.BookingStatus, page models.PageRequest) (models.Page[models.Booking], error)
	ListForUser(ctx context.Context, userID string, status models.BookingStatus, page models.PageRequest) (models.Page[models.Booking], error)
	ListByService(ctx context.Context, serviceID string, page models.PageRequest) (models.Page[models.Booking], error)
	ListBySubservice(ctx context.Context, subserviceID string, page models.PageRequest) (models.Page[models.Booking], error)

	Update(ctx context.Context, id string, caller models.Principal, patch AdminBookingPatch) (*models.Booking, error)
	Reschedule(ctx context.Context, id, userID, date, hhmm string) (*models.Booking, error)
	Cancel(ctx context.Context, id, userID, reason string) (*models.Booking, error)
	Delete(ctx context.Context, id string, caller models.Principal) error
}

// CatalogLookup resolves catalog references on a booking.
type CatalogLookup interface {
	FindServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	FindSubservicesByIDs(ctx context.Context, ids []string) ([]models.Subservice, error)
}

// AddressLookup loads a booking's address.
type AddressLookup interface {
	GetByID(ctx context.Context, id string) (*models.Address, error)
}

// EventPublisher hands booking changes to the notification worker.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEventPayload) error
}

// Options carries booking settings taken from configuration.
type Options struct {
	// Location is where booking dates and times are interpreted.
	Location *time.Location
	// NotifyChanges publishes cancellation and reschedule events.
	NotifyChanges bool
}

// CreateBookingInput is the body of a new booking.
type CreateBookingInput struct {
	Services    []string `json:"services" binding:"required,min=1,dive,required"`
	Subservices []string `json:"subservices" binding:"required,min=1,dive,required"`
	AddressID   string   `json:"addressId" binding:"required"`
	Date        string   `json:"date" binding:"required,date"`
	Time        string   `json:"time" binding:"required,hhmm"`
	Discount    float64  `json:"discount" binding:"gte=0"`
	FinalPrice  float64  `json:"finalPrice" binding:"gte=0"`
}

// ClientBookingPatch holds the fields a client may change on a pending booking.
type ClientBookingPatch struct {
	Services    []string `json:"services" binding:"omitempty,min=1,dive,required"`
	Subservices []string `json:"subservices" binding:"omitempty,min=1,dive,required"`
	AddressID   *string  `json:"addressId" binding:"omitempty,min=1"`
	Date        *string  `json:"date" binding:"omitempty,date"`
	Time        *string  `json:"time" binding:"omitempty,hhmm"`
}

// AdminBookingPatch adds the fields only admins may change.
type AdminBookingPatch struct {
	ClientBookingPatch
	Status     *models.BookingStatus `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Discount   *float64              `json:"discount" binding:"omitempty,gte=0"`
	FinalPrice *float64              `json:"finalPrice" binding:"omitempty,gte=0"`
}

func (p AdminBookingPatch) hasAdminFields() bool {
	return p.Status != nil || p.Discount != nil || p.FinalPrice != nil
}

// RescheduleInput is the body of a reschedule request.
type RescheduleInput struct {
	Date string `json:"date" binding:"required,date"`
	Time string `json:"time" binding:"required,hhmm"`
}

// CancelInput is the body of a cancel request.
type CancelInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Catalog   CatalogLookup
	Addresses AddressLookup
	Events    EventPublisher
	Opts      Options
	Paging    models.PagingDefaults
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewBookingService(
	repo bookingRepo.BookingRepository,
	catalog CatalogLookup,
	addresses AddressLookup,
	events EventPublisher,
	opts Options,
	paging models.PagingDefaults,
	logger *zap.Logger,
) (*DefaultBookingService, error) {
	if repo == nil || catalog == nil || addresses == nil {
		return nil, fmt.Errorf("booking service initialization error: missing dependency")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:      repo,
		Catalog:   catalog,
		Addresses: addresses,
		Events:    events,
		Opts:      opts,
		Paging:    paging,
		Logger:    logger,
		Now:       time.Now,
	}, nil
}
