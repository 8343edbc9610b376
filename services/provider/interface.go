package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	bookingRepo "homeserve/database/repository/booking"
	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/services/storage"

	"go.uber.org/zap"
)

// ProviderService manages service providers and their assignment to bookings.
type ProviderService interface {
	Create(ctx context.Context, adminID string, in CreateProviderInput, docs DocumentUploads) (*models.ServiceProvider, error)
	GetByID(ctx context.Context, id string) (*models.ServiceProvider, error)
	List(ctx context.Context, filter providerRepo.ProviderFilter, page models.PageRequest) (models.Page[models.ServiceProvider], error)
	Update(ctx context.Context, id string, patch ProviderPatch) (*models.ServiceProvider, error)
	UploadDocuments(ctx context.Context, id string, docs DocumentUploads) (*models.ServiceProvider, error)
	Delete(ctx context.Context, id, adminID string) error

	Verify(ctx context.Context, id, adminID string, in VerifyInput) (*models.ServiceProvider, error)
	VerifyDocument(ctx context.Context, id, adminID string, in VerifyDocumentInput) (*models.ServiceProvider, error)
	Suspend(ctx context.Context, id, adminID, reason string) (*models.ServiceProvider, error)

	AvailableProviders(ctx context.Context, in AvailabilityCriteria) ([]models.ServiceProvider, error)
	AssignToBooking(ctx context.Context, providerID, bookingID, adminID string) (*models.Booking, error)
	Stats(ctx context.Context, id string) (*models.ProviderStats, error)
}

// CatalogLookup checks that offered services exist.
type CatalogLookup interface {
	FindServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	FindSubservicesByIDs(ctx context.Context, ids []string) ([]models.Subservice, error)
}

// EventPublisher hands assignments to the notification worker.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEventPayload) error
}

// Options carries provider settings taken from configuration.
type Options struct {
	// EnforceCapability filters matching candidates and assignments by
	// offered services and weekly availability.
	EnforceCapability bool
	// Location is where booking days are interpreted for availability.
	Location *time.Location
	// DocumentFolder is the storage folder for identity documents.
	DocumentFolder string
}

// DocumentUploads holds optional image streams for identity documents.
type DocumentUploads struct {
	AadhaarCard   io.Reader
	PanCard       io.Reader
	PassportPhoto io.Reader
}

func (d DocumentUploads) empty() bool {
	return d.AadhaarCard == nil && d.PanCard == nil && d.PassportPhoto == nil
}

// CreateProviderInput is the body of a new provider. Images may be given as
// already hosted URLs or uploaded alongside.
type CreateProviderInput struct {
	Name             string                 `json:"name" binding:"required,min=2,max=100"`
	Email            string                 `json:"email" binding:"required,email"`
	PhoneNumber      string                 `json:"phoneNumber" binding:"required,phone10"`
	Services         []string               `json:"services" binding:"required,min=1,dive,required"`
	Subservices      []string               `json:"subservices" binding:"required,min=1,dive,required"`
	Address          models.ProviderAddress `json:"address"`
	AadhaarCard      string                 `json:"aadhaarCard" binding:"required,aadhaar"`
	AadhaarCardImage string                 `json:"aadhaarCardImage" binding:"omitempty,url"`
	PanCard          string                 `json:"panCard" binding:"required,pan"`
	PanCardImage     string                 `json:"panCardImage" binding:"omitempty,url"`
	PassportPhoto    string                 `json:"passportPhoto" binding:"omitempty,url"`
	Specializations  []string               `json:"specializations"`
	Experience       int                    `json:"experience" binding:"gte=0"`
	ExperienceUnit   string                 `json:"experienceUnit" binding:"omitempty,oneof=months years"`
	Qualification    string                 `json:"qualification" binding:"max=200"`
	Availability     models.Availability    `json:"availability"`
	Commission       *float64               `json:"commission" binding:"omitempty,gte=0,lte=100"`
	Notes            string                 `json:"notes" binding:"max=500"`
}

// ProviderPatch holds the editable provider fields. Nil fields are left unchanged.
type ProviderPatch struct {
	Name            *string                 `json:"name" binding:"omitempty,min=2,max=100"`
	Email           *string                 `json:"email" binding:"omitempty,email"`
	PhoneNumber     *string                 `json:"phoneNumber" binding:"omitempty,phone10"`
	Services        []string                `json:"services" binding:"omitempty,min=1,dive,required"`
	Subservices     []string                `json:"subservices" binding:"omitempty,min=1,dive,required"`
	Address         *models.ProviderAddress `json:"address"`
	AadhaarCard     *string                 `json:"aadhaarCard" binding:"omitempty,aadhaar"`
	PanCard         *string                 `json:"panCard" binding:"omitempty,pan"`
	Specializations []string                `json:"specializations"`
	Experience      *int                    `json:"experience" binding:"omitempty,gte=0"`
	ExperienceUnit  *string                 `json:"experienceUnit" binding:"omitempty,oneof=months years"`
	Qualification   *string                 `json:"qualification" binding:"omitempty,max=200"`
	Availability    models.Availability     `json:"availability"`
	Commission      *float64                `json:"commission" binding:"omitempty,gte=0,lte=100"`
	Status          *models.ProviderStatus  `json:"status" binding:"omitempty,oneof=verification_pending pending active inactive suspended"`
	Notes           *string                 `json:"notes" binding:"omitempty,max=500"`
}

// DocumentFlags are per-document verification results. Nil leaves a flag unchanged.
type DocumentFlags struct {
	AadhaarCard *bool `json:"aadhaarCard"`
	PanCard     *bool `json:"panCard"`
}

// VerifyInput is the body of a provider verification.
type VerifyInput struct {
	VerifyDocuments DocumentFlags `json:"verifyDocuments"`
	Notes           string        `json:"notes" binding:"max=500"`
}

// VerifyDocumentInput verifies a single document.
type VerifyDocumentInput struct {
	DocumentType string `json:"documentType" binding:"required"`
	Verified     bool   `json:"verified"`
	Notes        string `json:"notes" binding:"max=500"`
}

// SuspendInput is the body of a suspension.
type SuspendInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AvailabilityCriteria describes the booking a provider is wanted for.
type AvailabilityCriteria struct {
	Services    []string `json:"services" binding:"omitempty,dive,required"`
	Subservices []string `json:"subservices" binding:"omitempty,dive,required"`
	Date        string   `json:"date" binding:"omitempty,date"`
	Time        string   `json:"time" binding:"omitempty,hhmm"`
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo     providerRepo.ProviderRepository
	Bookings bookingRepo.BookingRepository
	Catalog  CatalogLookup
	Storage  storage.FileStorage
	Events   EventPublisher
	Opts     Options
	Paging   models.PagingDefaults
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewProviderService(
	repo providerRepo.ProviderRepository,
	bookings bookingRepo.BookingRepository,
	catalog CatalogLookup,
	files storage.FileStorage,
	events EventPublisher,
	opts Options,
	paging models.PagingDefaults,
	logger *zap.Logger,
) (*DefaultProviderService, error) {
	if repo == nil || bookings == nil || catalog == nil {
		return nil, fmt.Errorf("provider service initialization error: one or more dependencies are nil")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DocumentFolder == "" {
		opts.DocumentFolder = "providers"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultProviderService{
		Repo:     repo,
		Bookings: bookings,
		Catalog:  catalog,
		Storage:  files,
		Events:   events,
		Opts:     opts,
		Paging:   paging,
		Logger:   logger,
		Now:      time.Now,
	}, nil
}
