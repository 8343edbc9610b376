package addressRepo

import (
	"context"

	"homeserve/models"
)

// AddressRepository defines data access for client addresses.
type AddressRepository interface {
	Create(ctx context.Context, a *models.Address) error
	// GetByID returns the address regardless of owner, or nil.
	GetByID(ctx context.Context, id string) (*models.Address, error)
	// ListForUser returns one page of a user's addresses, newest first.
	ListForUser(ctx context.Context, userID string, page models.PageRequest) ([]models.Address, int64, error)
	Update(ctx context.Context, a *models.Address) error
	// Delete removes the address only if it belongs to userID.
	Delete(ctx context.Context, id, userID string) error
}
