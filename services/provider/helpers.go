package provider

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func isWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// validateAvailability requires weekday keys and "HH:MM" windows that end after
// they start. A day marked unavailable may leave both times empty.
func validateAvailability(a models.Availability) error {
	days := make([]string, 0, len(a))
	for day := range a {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		w := a[day]
		if !isWeekday(day) {
			return utils.NewValidationError(fmt.Sprintf("Invalid availability day %q, expected one of monday..sunday", day))
		}
		if !w.Available && w.Start == "" && w.End == "" {
			continue
		}
		if !utils.ValidHHMM(w.Start) || !utils.ValidHHMM(w.End) {
			return utils.NewValidationError(fmt.Sprintf("Availability times for %s must be in HH:MM format", day))
		}
		if w.Start >= w.End {
			return utils.NewValidationError(fmt.Sprintf("Availability for %s must end after it starts", day))
		}
	}
	return nil
}

// checkCatalog requires every offered service and subservice to exist.
func (s *DefaultProviderService) checkCatalog(ctx context.Context, services, subservices []string) error {
	services, subservices = unique(services), unique(subservices)
	if len(services) > 0 {
		found, err := s.Catalog.FindServicesByIDs(ctx, services)
		if err != nil {
			return utils.AsDatabaseError(err, "Failed to fetch services")
		}
		if len(found) != len(services) {
			return utils.NewNotFoundError("One or more services not found")
		}
	}
	if len(subservices) > 0 {
		found, err := s.Catalog.FindSubservicesByIDs(ctx, subservices)
		if err != nil {
			return utils.AsDatabaseError(err, "Failed to fetch subservices")
		}
		if len(found) != len(subservices) {
			return utils.NewNotFoundError("One or more subservices not found")
		}
	}
	return nil
}

// checkUnique reports the first unique field another provider already holds.
func (s *DefaultProviderService) checkUnique(ctx context.Context, fields providerRepo.UniqueFields, excludeID string) error {
	conflicts, err := s.Repo.FindConflicts(ctx, fields, excludeID)
	if err != nil {
		return utils.AsDatabaseError(err, "Failed to check existing service providers")
	}
	for _, c := range conflicts {
		switch {
		case fields.PhoneNumber != "" && c.PhoneNumber == fields.PhoneNumber:
			return utils.NewConflictError("Phone number already registered")
		case fields.Email != "" && c.Email == fields.Email:
			return utils.NewConflictError("Email already registered")
		case fields.Aadhaar != "" && c.AadhaarCard.Number == fields.Aadhaar:
			return utils.NewConflictError("Aadhaar number already registered")
		case fields.PAN != "" && c.PanCard.Number == fields.PAN:
			return utils.NewConflictError("PAN number already registered")
		}
	}
	return nil
}

// storeDocuments uploads the given images onto p. It returns the public IDs of
// the new files and of the files they replace.
func (s *DefaultProviderService) storeDocuments(ctx context.Context, p *models.ServiceProvider, docs DocumentUploads) (fresh, replaced []string, err error) {
	if docs.empty() {
		return nil, nil, nil
	}
	if s.Storage == nil {
		return nil, nil, utils.NewExternalServiceError("Document storage is not configured", nil)
	}

	put := func(r io.Reader, kind string, url, publicID *string) error {
		if r == nil {
			return nil
		}
		f, err := s.Storage.Upload(ctx, r, path.Join(s.Opts.DocumentFolder, kind))
		if err != nil {
			return err
		}
		fresh = append(fresh, f.PublicID)
		if *publicID != "" {
			replaced = append(replaced, *publicID)
		}
		*url, *publicID = f.URL, f.PublicID
		return nil
	}

	uploads := []struct {
		r        io.Reader
		kind     string
		url, pid *string
	}{
		{docs.AadhaarCard, models.DocumentAadhaar, &p.AadhaarCard.Image, &p.AadhaarCard.ImagePublicID},
		{docs.PanCard, models.DocumentPAN, &p.PanCard.Image, &p.PanCard.ImagePublicID},
		{docs.PassportPhoto, "passportPhoto", &p.PassportPhoto.Image, &p.PassportPhoto.ImagePublicID},
	}
	for _, u := range uploads {
		if err := put(u.r, u.kind, u.url, u.pid); err != nil {
			s.discard(ctx, fresh)
			s.Logger.Error("document upload failed", zap.String("providerID", p.ID), zap.String("kind", u.kind), zap.Error(err))
			return nil, nil, utils.NewExternalServiceError("File upload failed", err)
		}
	}
	return fresh, replaced, nil
}

// discard deletes stored files, logging failures.
func (s *DefaultProviderService) discard(ctx context.Context, publicIDs []string) {
	if s.Storage == nil {
		return
	}
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := s.Storage.Delete(ctx, id); err != nil {
			s.Logger.Warn("failed to delete stored file", zap.String("publicID", id), zap.Error(err))
		}
	}
}
