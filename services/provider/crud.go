package provider

import (
	"context"
	"strings"

	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCommission = 10

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

// Create registers a provider on behalf of an admin. New providers await verification.
func (s *DefaultProviderService) Create(ctx context.Context, adminID string, in CreateProviderInput, docs DocumentUploads) (*models.ServiceProvider, error) {
	logger := s.Logger.With(zap.String("adminID", adminID), zap.String("name", in.Name))

	in.Email = normalizeEmail(in.Email)
	in.PanCard = normalizePAN(in.PanCard)
	in.AadhaarCard = strings.TrimSpace(in.AadhaarCard)

	if in.AadhaarCard == "" || (in.AadhaarCardImage == "" && docs.AadhaarCard == nil) {
		return nil, utils.NewValidationError("Aadhaar card number and image are required")
	}
	if in.PanCard == "" || (in.PanCardImage == "" && docs.PanCard == nil) {
		return nil, utils.NewValidationError("PAN card number and image are required")
	}
	if in.PassportPhoto == "" && docs.PassportPhoto == nil {
		return nil, utils.NewValidationError("Passport photo is required")
	}
	if err := validateAvailability(in.Availability); err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, in.Services, in.Subservices); err != nil {
		return nil, err
	}
	err := s.checkUnique(ctx, providerRepo.UniqueFields{
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Aadhaar:     in.AadhaarCard,
		PAN:         in.PanCard,
	}, "")
	if err != nil {
		return nil, err
	}

	p := &models.ServiceProvider{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		Email:           in.Email,
		PhoneNumber:     in.PhoneNumber,
		Services:        unique(in.Services),
		Subservices:     unique(in.Subservices),
		Address:         in.Address,
		AadhaarCard:     models.IdentityDocument{Number: in.AadhaarCard, Image: in.AadhaarCardImage},
		PanCard:         models.IdentityDocument{Number: in.PanCard, Image: in.PanCardImage},
		PassportPhoto:   models.Photo{Image: in.PassportPhoto},
		Specializations: in.Specializations,
		Experience:      in.Experience,
		ExperienceUnit:  in.ExperienceUnit,
		Qualification:   in.Qualification,
		Availability:    in.Availability,
		Status:          models.ProviderVerificationPending,
		Rating:          models.NewRatingStats(),
		Commission:      defaultCommission,
		CreatedBy:       adminID,
		Notes:           in.Notes,
	}
	if p.Address.Country == "" {
		p.Address.Country = "India"
	}
	if p.ExperienceUnit == "" {
		p.ExperienceUnit = "years"
	}
	if len(p.Availability) == 0 {
		p.Availability = models.DefaultAvailability()
	}
	if in.Commission != nil {
		p.Commission = *in.Commission
	}

	fresh, _, err := s.storeDocuments(ctx, p, docs)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		s.discard(ctx, fresh)
		logger.Error("failed to create provider", zap.Error(err))
		return nil, utils.AsDatabaseError(err, "Failed to create service provider")
	}
	logger.Info("service provider created", zap.String("providerID", p.ID))
	return p, nil
}

// GetByID returns the provider or a NotFound error.
func (s *DefaultProviderService) GetByID(ctx context.Context, id string) (*models.ServiceProvider, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch service provider")
	}
	if p == nil {
		return nil, utils.NewNotFoundError("Service provider not found")
	}
	return p, nil
}

func (s *DefaultProviderService) List(ctx context.Context, filter providerRepo.ProviderFilter, page models.PageRequest) (models.Page[models.ServiceProvider], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return models.Page[models.ServiceProvider]{}, utils.NewValidationError("Invalid provider status")
	}
	switch filter.VerificationStatus {
	case "", providerRepo.VerificationVerified, providerRepo.VerificationPending:
	default:
		return models.Page[models.ServiceProvider]{}, utils.NewValidationError("Invalid verification status")
	}
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.List(ctx, filter, page)
	if err != nil {
		return models.Page[models.ServiceProvider]{}, utils.AsDatabaseError(err, "Failed to fetch service providers")
	}
	return models.NewPage(items, total, page), nil
}

// Update applies patch, re-checking unique fields against every other provider.
func (s *DefaultProviderService) Update(ctx context.Context, id string, patch ProviderPatch) (*models.ServiceProvider, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields providerRepo.UniqueFields
	if patch.PhoneNumber != nil && *patch.PhoneNumber != p.PhoneNumber {
		p.PhoneNumber = *patch.PhoneNumber
		fields.PhoneNumber = p.PhoneNumber
	}
	if patch.Email != nil {
		if email := normalizeEmail(*patch.Email); email != p.Email {
			p.Email = email
			fields.Email = email
		}
	}
	if patch.AadhaarCard != nil && *patch.AadhaarCard != p.AadhaarCard.Number {
		p.AadhaarCard.Number = *patch.AadhaarCard
		p.AadhaarCard.Verified = false
		fields.Aadhaar = p.AadhaarCard.Number
	}
	if patch.PanCard != nil {
		if pan := normalizePAN(*patch.PanCard); pan != p.PanCard.Number {
			p.PanCard.Number = pan
			p.PanCard.Verified = false
			fields.PAN = pan
		}
	}
	if fields != (providerRepo.UniqueFields{}) {
		if err := s.checkUnique(ctx, fields, p.ID); err != nil {
			return nil, err
		}
	}

	if patch.Services != nil || patch.Subservices != nil {
		if patch.Services != nil {
			p.Services = unique(patch.Services)
		}
		if patch.Subservices != nil {
			p.Subservices = unique(patch.Subservices)
		}
		if err := s.checkCatalog(ctx, p.Services, p.Subservices); err != nil {
			return nil, err
		}
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Specializations != nil {
		p.Specializations = patch.Specializations
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.ExperienceUnit != nil {
		p.ExperienceUnit = *patch.ExperienceUnit
	}
	if patch.Qualification != nil {
		p.Qualification = *patch.Qualification
	}
	if patch.Availability != nil {
		if err := validateAvailability(patch.Availability); err != nil {
			return nil, err
		}
		p.Availability = patch.Availability
	}
	if patch.Commission != nil {
		p.Commission = *patch.Commission
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, utils.NewValidationError("Invalid provider status")
		}
		p.Status = *patch.Status
	}
	if p.Status == models.ProviderActive && !p.DocumentsVerified() {
		p.RecomputeStatus()
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update service provider")
	}
	s.Logger.Info("service provider updated", zap.String("providerID", p.ID))
	return p, nil
}

// UploadDocuments replaces document images. Replaced images lose their verification.
func (s *DefaultProviderService) UploadDocuments(ctx context.Context, id string, docs DocumentUploads) (*models.ServiceProvider, error) {
	if docs.empty() {
		return nil, utils.NewValidationError("At least one document image is required")
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fresh, replaced, err := s.storeDocuments(ctx, p, docs)
	if err != nil {
		return nil, err
	}
	if docs.AadhaarCard != nil {
		p.AadhaarCard.Verified = false
	}
	if docs.PanCard != nil {
		p.PanCard.Verified = false
	}
	if p.Status == models.ProviderActive && !p.DocumentsVerified() {
		p.RecomputeStatus()
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		s.discard(ctx, fresh)
		return nil, utils.AsDatabaseError(err, "Failed to update service provider")
	}
	s.discard(ctx, replaced)
	s.Logger.Info("provider documents uploaded", zap.String("providerID", p.ID), zap.Int("files", len(fresh)))
	return p, nil
}

// Delete removes a provider with no pending or confirmed bookings.
func (s *DefaultProviderService) Delete(ctx context.Context, id, adminID string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	active, err := s.Bookings.CountForProvider(ctx, id, models.ActiveBookingStatuses)
	if err != nil {
		return utils.AsDatabaseError(err, "Failed to check provider bookings")
	}
	if active > 0 {
		return utils.NewValidationError("Cannot delete service provider with active bookings")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.AsDatabaseError(err, "Failed to delete service provider")
	}
	s.discard(ctx, []string{p.AadhaarCard.ImagePublicID, p.PanCard.ImagePublicID, p.PassportPhoto.ImagePublicID})
	s.Logger.Info("service provider deleted", zap.String("providerID", id), zap.String("adminID", adminID))
	return nil
}
