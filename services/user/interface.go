package user

import (
	"context"
	"fmt"
	"time"

	userRepo "homeserve/database/repository/user"
	"homeserve/models"
	"homeserve/services/notification"

	"go.uber.org/zap"
)

type UserService interface {
	// Phone authentication
	SendOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, phone, code string) (*models.AuthResponse, error)

	// Profile
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error)

	// Admin
	AdminLogin(ctx context.Context, email, password string) (*models.AuthResponse, error)
	CreateAdmin(ctx context.Context, in AdminInput, createdBy string) (*models.User, error)
	BootstrapAdmin(ctx context.Context, email, password, name string) error
	GetAdmin(ctx context.Context, id string) (*models.User, error)
	ListAdmins(ctx context.Context, page models.PageRequest) (models.Page[models.User], error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page models.PageRequest) (models.Page[models.User], error)
	DeleteUser(ctx context.Context, id string) error
}

// OTPStore keeps pending one-time codes per phone number.
type OTPStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	IncrAttempts(ctx context.Context, phone string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, phone string) error
}

// Options carries the auth settings taken from configuration.
type Options struct {
	OTPTTL         time.Duration
	OTPLength      int
	OTPMaxAttempts int64
	TokenTTL       time.Duration
}

// ProfilePatch is what a user may change about themselves.
type ProfilePatch struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Avatar   *string `json:"avatar" binding:"omitempty,url"`
	FCMToken *string `json:"fcmToken" binding:"omitempty,max=4096"`
}

// AdminInput creates an admin account.
type AdminInput struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	OTP    OTPStore
	SMS    notification.SMSSender
	Opts   Options
	Paging models.PagingDefaults
	Logger *zap.Logger
	Now    func() time.Time
}

func NewUserService(
	repo userRepo.UserRepository,
	otp OTPStore,
	sms notification.SMSSender,
	opts Options,
	paging models.PagingDefaults,
	logger *zap.Logger,
) (*DefaultUserService, error) {
	if repo == nil || otp == nil || sms == nil {
		return nil, fmt.Errorf("user service initialization error: missing dependency")
	}
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 5 * time.Minute
	}
	if opts.OTPLength <= 0 {
		opts.OTPLength = 6
	}
	if opts.OTPMaxAttempts <= 0 {
		opts.OTPMaxAttempts = 5
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultUserService{
		Repo:   repo,
		OTP:    otp,
		SMS:    sms,
		Opts:   opts,
		Paging: paging,
		Logger: logger,
		Now:    time.Now,
	}, nil
}
