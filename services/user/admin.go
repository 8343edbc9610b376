package user

import (
	"context"
	"strings"

	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminLogin authenticates an admin by email and password.
func (s *DefaultUserService) AdminLogin(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch admin")
	}
	if u == nil || !u.IsAdmin() || u.PasswordHash == "" {
		return nil, utils.NewAuthenticationError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.Logger.Warn("admin login failed", zap.String("adminID", u.ID))
		return nil, utils.NewAuthenticationError("Invalid email or password")
	}

	u.LastLoginAt = s.Now()
	if err := s.Repo.Update(ctx, u); err != nil {
		s.Logger.Warn("failed to record login time", zap.String("adminID", u.ID), zap.Error(err))
	}
	return s.issueToken(u)
}

// CreateAdmin adds a new admin account.
func (s *DefaultUserService) CreateAdmin(ctx context.Context, in AdminInput, createdBy string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to check email")
	}
	if existing != nil {
		return nil, utils.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewValidationError("Invalid password")
	}

	admin := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedBy:    createdBy,
	}
	if err := s.Repo.Create(ctx, admin); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to create admin")
	}
	s.Logger.Info("admin created", zap.String("adminID", admin.ID), zap.String("createdBy", createdBy))
	return admin, nil
}

// BootstrapAdmin creates the configured admin unless one with that email exists.
// An empty email disables bootstrapping.
func (s *DefaultUserService) BootstrapAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return utils.AsDatabaseError(err, "Failed to check bootstrap admin")
	}
	if existing != nil {
		return nil
	}
	if name == "" {
		name = "Administrator"
	}
	_, err = s.CreateAdmin(ctx, AdminInput{Name: name, Email: email, Password: password}, "system")
	return err
}

func (s *DefaultUserService) GetAdmin(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch admin")
	}
	if u == nil || !u.IsAdmin() {
		return nil, utils.NewNotFoundError("Admin not found")
	}
	return u, nil
}

func (s *DefaultUserService) ListAdmins(ctx context.Context, page models.PageRequest) (models.Page[models.User], error) {
	return s.listByRole(ctx, models.RoleAdmin, page)
}

func (s *DefaultUserService) ListUsers(ctx context.Context, page models.PageRequest) (models.Page[models.User], error) {
	return s.listByRole(ctx, models.RoleClient, page)
}

func (s *DefaultUserService) listByRole(ctx context.Context, role string, page models.PageRequest) (models.Page[models.User], error) {
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.ListByRole(ctx, role, page)
	if err != nil {
		return models.Page[models.User]{}, utils.AsDatabaseError(err, "Failed to fetch users")
	}
	return models.NewPage(items, total, page), nil
}

// GetUser returns a client account.
func (s *DefaultUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch user")
	}
	if u == nil || u.IsAdmin() {
		return nil, utils.NewNotFoundError("User not found")
	}
	return u, nil
}

// DeleteUser removes a client account. Admin accounts are not deletable here.
func (s *DefaultUserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.AsDatabaseError(err, "Failed to delete user")
	}
	s.Logger.Info("user deleted", zap.String("userID", id))
	return nil
}
