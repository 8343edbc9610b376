package userRepo

import (
	"context"

	"homeserve/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. Returns nil when missing.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByPhone retrieves a user by a cleaned 10-digit phone number.
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
	// ListByRole returns one page of users holding role, newest first.
	ListByRole(ctx context.Context, role string, page models.PageRequest) ([]models.User, int64, error)
}
