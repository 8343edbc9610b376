package notification

import (
	"context"
	"errors"
	"fmt"

	providerRepo "homeserve/database/repository/provider"
	userRepo "homeserve/database/repository/user"
	"homeserve/models"

	"go.uber.org/zap"
)

// NotificationService tells the parties of a booking about changes to it.
type NotificationService interface {
	NotifyBookingEvent(ctx context.Context, event models.BookingEventPayload) error
}

// DefaultNotificationService pushes to the client and texts the provider.
type DefaultNotificationService struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
	Push      Pusher
	SMS       SMSSender
	Logger    *zap.Logger
}

func NewNotificationService(
	users userRepo.UserRepository,
	providers providerRepo.ProviderRepository,
	push Pusher,
	sms SMSSender,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if users == nil || providers == nil || push == nil || sms == nil {
		return nil, fmt.Errorf("notification service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{Users: users, Providers: providers, Push: push, SMS: sms, Logger: logger}, nil
}

func pushTitle(event string) string {
	switch event {
	case models.BookingEventAssigned:
		return "Professional assigned"
	case models.BookingEventCancelled:
		return "Booking cancelled"
	case models.BookingEventRescheduled:
		return "Booking rescheduled"
	}
	return "Booking update"
}

// NotifyBookingEvent sends both notifications. A missing recipient or device token
// is skipped; delivery failures are returned so the task is retried.
func (s *DefaultNotificationService) NotifyBookingEvent(ctx context.Context, event models.BookingEventPayload) error {
	log := s.Logger.With(zap.String("bookingID", event.BookingID), zap.String("event", event.Event))
	var errs []error

	user, err := s.Users.GetByID(ctx, event.UserID)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("failed to load user %s: %w", event.UserID, err))
	case user == nil || user.FCMToken == "":
		log.Debug("no device token for user, skipping push", zap.String("userID", event.UserID))
	default:
		data := map[string]string{"bookingId": event.BookingID, "event": event.Event, "role": models.RoleClient}
		if err := s.Push.Push(ctx, user.FCMToken, pushTitle(event.Event), event.Message, data); err != nil {
			errs = append(errs, err)
		}
	}

	if event.ProviderID != "" {
		provider, err := s.Providers.GetByID(ctx, event.ProviderID)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("failed to load provider %s: %w", event.ProviderID, err))
		case provider == nil || provider.PhoneNumber == "":
			log.Warn("provider missing, skipping sms", zap.String("providerID", event.ProviderID))
		default:
			if err := s.SMS.SendSMS(ctx, provider.PhoneNumber, event.Message); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Error("booking notification failed", zap.Error(err))
		return err
	}
	log.Info("booking notification sent")
	return nil
}
