package providerRepo

import (
	"context"

	"homeserve/models"
)

// Verification filters for provider listings.
const (
	VerificationVerified = "verified"
	VerificationPending  = "pending"
)

// ProviderFilter narrows provider listings. Empty fields are ignored.
type ProviderFilter struct {
	Status             models.ProviderStatus
	ServiceID          string
	SubserviceID       string
	VerificationStatus string // VerificationVerified or VerificationPending
	Search             string // Case-insensitive match on name, email, phone, Aadhaar and PAN
}

// UniqueFields are the provider attributes that must not repeat across providers.
type UniqueFields struct {
	PhoneNumber string
	Email       string
	Aadhaar     string
	PAN         string
}

// MatchFilter selects matching candidates. A zero filter matches every provider.
type MatchFilter struct {
	Services    []string
	Subservices []string
	Day         string // Weekday key, e.g. "monday"
	Time        string // "HH:MM"
	ActiveOnly  bool
}

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// Create inserts a new provider record.
	Create(ctx context.Context, p *models.ServiceProvider) error
	// GetByID returns the provider or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.ServiceProvider, error)
	// Update writes p's profile fields. The stored rating aggregate is kept.
	Update(ctx context.Context, p *models.ServiceProvider) error
	// Delete removes a provider record by its ID.
	Delete(ctx context.Context, id string) error
	// List returns one page of providers, newest first, plus the total match count.
	List(ctx context.Context, filter ProviderFilter, page models.PageRequest) ([]models.ServiceProvider, int64, error)
	// FindConflicts returns providers other than excludeID sharing any non-empty unique field.
	FindConflicts(ctx context.Context, fields UniqueFields, excludeID string) ([]models.ServiceProvider, error)
	// FindForMatching returns candidates ordered by rating average then total ratings, both descending.
	FindForMatching(ctx context.Context, filter MatchFilter) ([]models.ServiceProvider, error)
	// AddRating atomically folds one rating into the provider's aggregate and
	// returns the new stats, or nil when the provider does not exist.
	AddRating(ctx context.Context, id string, stars int) (*models.RatingStats, error)
}
