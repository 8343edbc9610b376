package catalog

import (
	"context"
	"fmt"

	catalogRepo "homeserve/database/repository/catalog"
	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the service and subservice catalog.
type CatalogService interface {
	CreateService(ctx context.Context, in ServiceInput) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	UpdateService(ctx context.Context, id string, patch ServicePatch) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
	ListServices(ctx context.Context, search string, page models.PageRequest) (models.Page[models.Service], error)

	CreateSubservice(ctx context.Context, in SubserviceInput) (*models.Subservice, error)
	GetSubservice(ctx context.Context, id string) (*models.Subservice, error)
	UpdateSubservice(ctx context.Context, id string, patch ServicePatch) (*models.Subservice, error)
	DeleteSubservice(ctx context.Context, id string) error
	ListSubservices(ctx context.Context, serviceID string, page models.PageRequest) (models.Page[models.Subservice], error)
}

// ServiceInput is the body for creating a service.
type ServiceInput struct {
	Name            string   `json:"name" binding:"required,min=2,max=100"`
	Description     string   `json:"description" binding:"required,max=1000"`
	Process         []string `json:"process"`
	OriginalPrice   float64  `json:"originalPrice" binding:"gte=0"`
	DiscountedPrice float64  `json:"discountedPrice" binding:"gte=0"`
	Duration        string   `json:"duration" binding:"max=50"`
	Image           string   `json:"image" binding:"omitempty,url"`
}

// SubserviceInput is the body for creating a subservice.
type SubserviceInput struct {
	ServiceID string `json:"serviceId" binding:"required"`
	ServiceInput
}

// ServicePatch updates a service or subservice. Nil fields are left unchanged.
type ServicePatch struct {
	Name            *string   `json:"name" binding:"omitempty,min=2,max=100"`
	Description     *string   `json:"description" binding:"omitempty,max=1000"`
	Process         *[]string `json:"process"`
	OriginalPrice   *float64  `json:"originalPrice" binding:"omitempty,gte=0"`
	DiscountedPrice *float64  `json:"discountedPrice" binding:"omitempty,gte=0"`
	Duration        *string   `json:"duration" binding:"omitempty,max=50"`
	Image           *string   `json:"image" binding:"omitempty,url"`
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Repo   catalogRepo.CatalogRepository
	Paging models.PagingDefaults
	Logger *zap.Logger
}

func NewCatalogService(repo catalogRepo.CatalogRepository, paging models.PagingDefaults, logger *zap.Logger) (*DefaultCatalogService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog service initialization error: repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{Repo: repo, Paging: paging, Logger: logger}, nil
}

func checkPrices(original, discounted float64) error {
	if discounted > original {
		return utils.NewValidationError("Discounted price cannot exceed original price")
	}
	return nil
}

// pricing is the shared shape of services and subservices for patching.
type pricing struct {
	name, description, duration, image *string
	process                            *[]string
	original, discounted               *float64
}

func (p ServicePatch) apply(t pricing) error {
	if p.Name != nil {
		*t.name = *p.Name
	}
	if p.Description != nil {
		*t.description = *p.Description
	}
	if p.Process != nil {
		*t.process = *p.Process
	}
	if p.OriginalPrice != nil {
		*t.original = *p.OriginalPrice
	}
	if p.DiscountedPrice != nil {
		*t.discounted = *p.DiscountedPrice
	}
	if p.Duration != nil {
		*t.duration = *p.Duration
	}
	if p.Image != nil {
		*t.image = *p.Image
	}
	return checkPrices(*t.original, *t.discounted)
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := checkPrices(in.OriginalPrice, in.DiscountedPrice); err != nil {
		return nil, err
	}
	svc := &models.Service{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Description:     in.Description,
		Process:         in.Process,
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		Duration:        in.Duration,
		Image:           in.Image,
	}
	if err := s.Repo.CreateService(ctx, svc); err != nil {
		s.Logger.Error("failed to create service", zap.Error(err))
		return nil, utils.AsDatabaseError(err, "Failed to create service")
	}
	s.Logger.Info("service created", zap.String("serviceID", svc.ID))
	return svc, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetService(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch service")
	}
	if svc == nil {
		return nil, utils.NewNotFoundError("Service not found")
	}
	return svc, nil
}

func (s *DefaultCatalogService) UpdateService(ctx context.Context, id string, patch ServicePatch) (*models.Service, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(pricing{
		name: &svc.Name, description: &svc.Description, duration: &svc.Duration, image: &svc.Image,
		process: &svc.Process, original: &svc.OriginalPrice, discounted: &svc.DiscountedPrice,
	}); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateService(ctx, svc); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update service")
	}
	return svc, nil
}

func (s *DefaultCatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.Repo.DeleteService(ctx, id); err != nil {
		return utils.AsDatabaseError(err, "Failed to delete service")
	}
	s.Logger.Info("service deleted", zap.String("serviceID", id))
	return nil
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, search string, page models.PageRequest) (models.Page[models.Service], error) {
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.ListServices(ctx, search, page)
	if err != nil {
		return models.Page[models.Service]{}, utils.AsDatabaseError(err, "Failed to fetch services")
	}
	return models.NewPage(items, total, page), nil
}
