package provider

import (
	"context"

	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

// Verify records document checks. The provider becomes active only once both
// documents are verified.
func (s *DefaultProviderService) Verify(ctx context.Context, id, adminID string, in VerifyInput) (*models.ServiceProvider, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := in.VerifyDocuments.AadhaarCard; v != nil {
		p.AadhaarCard.Verified = *v
	}
	if v := in.VerifyDocuments.PanCard; v != nil {
		p.PanCard.Verified = *v
	}
	s.markVerified(p, adminID, in.Notes)

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to verify service provider")
	}
	s.Logger.Info("service provider verified",
		zap.String("providerID", id),
		zap.String("adminID", adminID),
		zap.String("status", string(p.Status)),
	)
	return p, nil
}

// VerifyDocument sets the verification flag of a single document.
func (s *DefaultProviderService) VerifyDocument(ctx context.Context, id, adminID string, in VerifyDocumentInput) (*models.ServiceProvider, error) {
	if in.DocumentType != models.DocumentAadhaar && in.DocumentType != models.DocumentPAN {
		return nil, utils.NewValidationError(`Invalid document type. Must be "aadhaarCard" or "panCard"`)
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DocumentType == models.DocumentAadhaar {
		p.AadhaarCard.Verified = in.Verified
	} else {
		p.PanCard.Verified = in.Verified
	}
	s.markVerified(p, adminID, in.Notes)

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to verify document")
	}
	s.Logger.Info("provider document verified",
		zap.String("providerID", id),
		zap.String("document", in.DocumentType),
		zap.Bool("verified", in.Verified),
	)
	return p, nil
}

func (s *DefaultProviderService) markVerified(p *models.ServiceProvider, adminID, notes string) {
	p.RecomputeStatus()
	now := s.Now()
	p.VerifiedBy = adminID
	p.VerifiedAt = &now
	if notes != "" {
		p.Notes = notes
	}
}

// Suspend takes a provider out of matching regardless of its current state.
func (s *DefaultProviderService) Suspend(ctx context.Context, id, adminID, reason string) (*models.ServiceProvider, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = models.ProviderSuspended
	p.Notes = reason
	if p.Notes == "" {
		p.Notes = "Suspended by admin"
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to suspend service provider")
	}
	s.Logger.Info("service provider suspended", zap.String("providerID", id), zap.String("adminID", adminID))
	return p, nil
}
