package notification

import (
	"context"
	"errors"
	"testing"

	"homeserve/internal/testutil"
	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPush struct {
	token, title, body string
	data               map[string]string
}

type fakePusher struct {
	sent []sentPush
	err  error
}

func (p *fakePusher) Push(_ context.Context, token, title, body string, data map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentPush{token, title, body, data})
	return nil
}

type fakeSMS struct {
	sent map[string]string
	err  error
}

func (s *fakeSMS) SendSMS(_ context.Context, phone, message string) error {
	if s.err != nil {
		return s.err
	}
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[phone] = message
	return nil
}

func newTestService(t *testing.T, push *fakePusher, sms *fakeSMS) *DefaultNotificationService {
	users := testutil.NewUserRepo(models.User{ID: "u-1", PhoneNumber: "9000000001", Role: models.RoleClient, FCMToken: "tok-1"})
	providers := testutil.NewProviderRepo(models.ServiceProvider{ID: "p-1", PhoneNumber: "9000000002"})
	svc, err := NewNotificationService(users, providers, push, sms, nil)
	require.NoError(t, err)
	return svc
}

func TestNotifyBookingAssigned(t *testing.T) {
	push, sms := &fakePusher{}, &fakeSMS{}
	svc := newTestService(t, push, sms)

	err := svc.NotifyBookingEvent(context.Background(), models.BookingEventPayload{
		BookingID: "b-1", UserID: "u-1", ProviderID: "p-1",
		Event: models.BookingEventAssigned, Message: "You have a new booking",
	})
	require.NoError(t, err)

	require.Len(t, push.sent, 1)
	assert.Equal(t, "tok-1", push.sent[0].token)
	assert.Equal(t, "Professional assigned", push.sent[0].title)
	assert.Equal(t, "b-1", push.sent[0].data["bookingId"])
	assert.Equal(t, "You have a new booking", sms.sent["9000000002"])
}

func TestNotifySkipsMissingRecipients(t *testing.T) {
	push, sms := &fakePusher{}, &fakeSMS{}
	svc := newTestService(t, push, sms)

	err := svc.NotifyBookingEvent(context.Background(), models.BookingEventPayload{
		BookingID: "b-1", UserID: "ghost", ProviderID: "ghost", Event: models.BookingEventCancelled,
	})
	assert.NoError(t, err)
	assert.Empty(t, push.sent)
	assert.Empty(t, sms.sent)
}

func TestNotifyReturnsDeliveryFailures(t *testing.T) {
	svc := newTestService(t, &fakePusher{err: errors.New("fcm down")}, &fakeSMS{err: errors.New("gateway down")})

	err := svc.NotifyBookingEvent(context.Background(), models.BookingEventPayload{
		BookingID: "b-1", UserID: "u-1", ProviderID: "p-1", Event: models.BookingEventAssigned,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fcm down")
	assert.Contains(t, err.Error(), "gateway down")
}
