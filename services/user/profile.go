package user

import (
	"context"
	"strings"

	"homeserve/models"
	"homeserve/utils"
)

func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch user")
	}
	if u == nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of patch to the caller's account.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != u.Email {
			other, err := s.Repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, utils.AsDatabaseError(err, "Failed to check email")
			}
			if other != nil && other.ID != u.ID {
				return nil, utils.NewConflictError("Email already registered")
			}
		}
		u.Email = email
	}
	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	if patch.FCMToken != nil {
		u.FCMToken = *patch.FCMToken
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update profile")
	}
	return u, nil
}
