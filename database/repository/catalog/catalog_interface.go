package catalogRepo

import (
	"context"

	"homeserve/models"
)

// CatalogRepository defines data access for services and their subservices.
type CatalogRepository interface {
	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id string) (*models.Service, error)
	UpdateService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id string) error
	// ListServices returns a page of services sorted by name. search matches the name case-insensitively.
	ListServices(ctx context.Context, search string, page models.PageRequest) ([]models.Service, int64, error)
	// FindServicesByIDs returns the services among ids that exist.
	FindServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error)

	CreateSubservice(ctx context.Context, s *models.Subservice) error
	GetSubservice(ctx context.Context, id string) (*models.Subservice, error)
	UpdateSubservice(ctx context.Context, s *models.Subservice) error
	DeleteSubservice(ctx context.Context, id string) error
	// ListSubservices returns a page of subservices, optionally restricted to one service.
	ListSubservices(ctx context.Context, serviceID string, page models.PageRequest) ([]models.Subservice, int64, error)
	// FindSubservicesByIDs returns the subservices among ids that exist.
	FindSubservicesByIDs(ctx context.Context, ids []string) ([]models.Subservice, error)
}
