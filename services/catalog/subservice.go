package catalog

import (
	"context"

	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateSubservice adds a subservice under an existing service.
func (s *DefaultCatalogService) CreateSubservice(ctx context.Context, in SubserviceInput) (*models.Subservice, error) {
	if _, err := s.GetService(ctx, in.ServiceID); err != nil {
		return nil, err
	}
	if err := checkPrices(in.OriginalPrice, in.DiscountedPrice); err != nil {
		return nil, err
	}
	sub := &models.Subservice{
		ID:              uuid.New().String(),
		ServiceID:       in.ServiceID,
		Name:            in.Name,
		Description:     in.Description,
		Process:         in.Process,
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		Duration:        in.Duration,
		Image:           in.Image,
	}
	if err := s.Repo.CreateSubservice(ctx, sub); err != nil {
		s.Logger.Error("failed to create subservice", zap.Error(err))
		return nil, utils.AsDatabaseError(err, "Failed to create subservice")
	}
	return sub, nil
}

func (s *DefaultCatalogService) GetSubservice(ctx context.Context, id string) (*models.Subservice, error) {
	sub, err := s.Repo.GetSubservice(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch subservice")
	}
	if sub == nil {
		return nil, utils.NewNotFoundError("Subservice not found")
	}
	return sub, nil
}

func (s *DefaultCatalogService) UpdateSubservice(ctx context.Context, id string, patch ServicePatch) (*models.Subservice, error) {
	sub, err := s.GetSubservice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(pricing{
		name: &sub.Name, description: &sub.Description, duration: &sub.Duration, image: &sub.Image,
		process: &sub.Process, original: &sub.OriginalPrice, discounted: &sub.DiscountedPrice,
	}); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateSubservice(ctx, sub); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update subservice")
	}
	return sub, nil
}

func (s *DefaultCatalogService) DeleteSubservice(ctx context.Context, id string) error {
	if err := s.Repo.DeleteSubservice(ctx, id); err != nil {
		return utils.AsDatabaseError(err, "Failed to delete subservice")
	}
	return nil
}

// ListSubservices lists subservices, restricted to serviceID when given.
func (s *DefaultCatalogService) ListSubservices(ctx context.Context, serviceID string, page models.PageRequest) (models.Page[models.Subservice], error) {
	if serviceID != "" {
		if _, err := s.GetService(ctx, serviceID); err != nil {
			return models.Page[models.Subservice]{}, err
		}
	}
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.ListSubservices(ctx, serviceID, page)
	if err != nil {
		return models.Page[models.Subservice]{}, utils.AsDatabaseError(err, "Failed to fetch subservices")
	}
	return models.NewPage(items, total, page), nil
}
