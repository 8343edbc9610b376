package user

import (
	"context"
	"crypto/subtle"
	"fmt"

	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendOTP issues a fresh code for phone and texts it. Returns the cleaned number.
func (s *DefaultUserService) SendOTP(ctx context.Context, phone string) (string, error) {
	cleaned, err := utils.CleanPhoneNumber(phone)
	if err != nil {
		return "", utils.NewValidationError("Invalid phone number")
	}

	code, err := utils.GenerateNumericOTP(s.Opts.OTPLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	if err := s.OTP.Save(ctx, cleaned, code, s.Opts.OTPTTL); err != nil {
		s.Logger.Error("failed to store OTP", zap.String("phone", cleaned), zap.Error(err))
		return "", utils.NewDatabaseError("Failed to send OTP", err)
	}

	msg := fmt.Sprintf("%s is your verification code. It expires in %d minutes.", code, int(s.Opts.OTPTTL.Minutes()))
	if err := s.SMS.SendSMS(ctx, cleaned, msg); err != nil {
		s.Logger.Error("failed to send OTP sms", zap.String("phone", cleaned), zap.Error(err))
		_ = s.OTP.Delete(ctx, cleaned)
		return "", utils.NewExternalServiceError("Failed to send OTP", err)
	}

	s.Logger.Info("OTP sent", zap.String("phone", cleaned))
	return cleaned, nil
}

// VerifyOTP checks the code, creating the client account on first login.
func (s *DefaultUserService) VerifyOTP(ctx context.Context, phone, code string) (*models.AuthResponse, error) {
	cleaned, err := utils.CleanPhoneNumber(phone)
	if err != nil {
		return nil, utils.NewValidationError("Invalid phone number")
	}

	stored, err := s.OTP.Get(ctx, cleaned)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to verify OTP", err)
	}
	if stored == "" {
		return nil, utils.NewAuthenticationError("OTP expired or not requested")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		attempts, err := s.OTP.IncrAttempts(ctx, cleaned, s.Opts.OTPTTL)
		if err != nil {
			return nil, utils.NewDatabaseError("Failed to verify OTP", err)
		}
		if attempts >= s.Opts.OTPMaxAttempts {
			_ = s.OTP.Delete(ctx, cleaned)
			s.Logger.Warn("OTP attempts exhausted", zap.String("phone", cleaned))
			return nil, utils.NewRateLimitError("Too many invalid attempts, please request a new OTP")
		}
		return nil, utils.NewAuthenticationError("Invalid OTP")
	}

	if err := s.OTP.Delete(ctx, cleaned); err != nil {
		s.Logger.Warn("failed to clear OTP", zap.String("phone", cleaned), zap.Error(err))
	}

	u, err := s.Repo.GetByPhone(ctx, cleaned)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch user")
	}
	isNew := u == nil
	if isNew {
		u = &models.User{ID: uuid.New().String(), PhoneNumber: cleaned, Role: models.RoleClient}
		u.LastLoginAt = s.Now()
		if err := s.Repo.Create(ctx, u); err != nil {
			return nil, utils.AsDatabaseError(err, "Failed to create user")
		}
		s.Logger.Info("client registered", zap.String("userID", u.ID))
	} else {
		u.LastLoginAt = s.Now()
		if err := s.Repo.Update(ctx, u); err != nil {
			s.Logger.Warn("failed to record login time", zap.String("userID", u.ID), zap.Error(err))
		}
	}

	resp, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	resp.IsNewUser = isNew
	return resp, nil
}

func (s *DefaultUserService) issueToken(u *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := utils.GenerateToken(models.Principal{ID: u.ID, Role: u.Role, Phone: u.PhoneNumber}, s.Opts.TokenTTL)
	if err != nil {
		s.Logger.Error("failed to sign token", zap.String("userID", u.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
