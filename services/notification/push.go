package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Pusher sends a push notification to one device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMPusher sends through Firebase Cloud Messaging.
type FCMPusher struct {
	Client *messaging.Client
}

func (p *FCMPusher) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
		},
	}
	if _, err := p.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

// LogPusher logs pushes when FCM is disabled.
type LogPusher struct {
	Logger *zap.Logger
}

func (p LogPusher) Push(_ context.Context, token, title, body string, _ map[string]string) error {
	p.Logger.Info("push delivery disabled, message logged", zap.String("title", title), zap.String("body", body))
	return nil
}
