package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"homeserve/internal/testutil"
	"homeserve/models"
	"homeserve/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOTP struct {
	codes    map[string]string
	attempts map[string]int64
}

func newMemoryOTP() *memoryOTP {
	return &memoryOTP{codes: map[string]string{}, attempts: map[string]int64{}}
}

func (m *memoryOTP) Save(_ context.Context, phone, code string, _ time.Duration) error {
	m.codes[phone] = code
	delete(m.attempts, phone)
	return nil
}

func (m *memoryOTP) Get(_ context.Context, phone string) (string, error) {
	return m.codes[phone], nil
}

func (m *memoryOTP) IncrAttempts(_ context.Context, phone string, _ time.Duration) (int64, error) {
	m.attempts[phone]++
	return m.attempts[phone], nil
}

func (m *memoryOTP) Delete(_ context.Context, phone string) error {
	delete(m.codes, phone)
	delete(m.attempts, phone)
	return nil
}

type capturedSMS struct {
	last map[string]string
	err  error
}

func (c *capturedSMS) SendSMS(_ context.Context, phone, message string) error {
	if c.err != nil {
		return c.err
	}
	if c.last == nil {
		c.last = map[string]string{}
	}
	c.last[phone] = message
	return nil
}

var otpInMessage = regexp.MustCompile(`^(\d{6}) is your verification code`)

func newTestUserService(t *testing.T, users ...models.User) (*DefaultUserService, *testutil.UserRepo, *memoryOTP, *capturedSMS) {
	repo := testutil.NewUserRepo(users...)
	otp := newMemoryOTP()
	sms := &capturedSMS{}
	svc, err := NewUserService(repo, otp, sms, Options{}, models.PagingDefaults{DefaultLimit: 10, MaxLimit: 100}, nil)
	require.NoError(t, err)
	return svc, repo, otp, sms
}

func TestOTPLoginCreatesClientOnFirstVerify(t *testing.T) {
	svc, repo, _, sms := newTestUserService(t)
	ctx := context.Background()

	phone, err := svc.SendOTP(ctx, "+91 98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", phone)

	m := otpInMessage.FindStringSubmatch(sms.last[phone])
	require.Len(t, m, 2)

	resp, err := svc.VerifyOTP(ctx, phone, m[1])
	require.NoError(t, err)
	assert.True(t, resp.IsNewUser)
	assert.Equal(t, models.RoleClient, resp.User.Role)
	assert.Len(t, repo.Users, 1)

	p, err := utils.ParsePrincipal(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, p.ID)
	assert.Equal(t, "9876543210", p.Phone)

	// The code is single use.
	_, err = svc.VerifyOTP(ctx, phone, m[1])
	assert.True(t, utils.IsKind(err, utils.KindAuthentication))
}

func TestVerifyOTPExistingUser(t *testing.T) {
	svc, _, otp, _ := newTestUserService(t, models.User{ID: "u-1", PhoneNumber: "9876543210", Role: models.RoleClient})
	otp.codes["9876543210"] = "123456"

	resp, err := svc.VerifyOTP(context.Background(), "9876543210", "123456")
	require.NoError(t, err)
	assert.False(t, resp.IsNewUser)
	assert.Equal(t, "u-1", resp.User.ID)
}

func TestVerifyOTPLimitsAttempts(t *testing.T) {
	svc, _, otp, _ := newTestUserService(t)
	otp.codes["9876543210"] = "123456"

	for i := 0; i < 4; i++ {
		_, err := svc.VerifyOTP(context.Background(), "9876543210", "000000")
		assert.True(t, utils.IsKind(err, utils.KindAuthentication))
	}
	_, err := svc.VerifyOTP(context.Background(), "9876543210", "000000")
	assert.True(t, utils.IsKind(err, utils.KindRateLimit))

	// Exhausting the attempts burns the code.
	_, err = svc.VerifyOTP(context.Background(), "9876543210", "123456")
	assert.True(t, utils.IsKind(err, utils.KindAuthentication))
}

func TestSendOTPValidationAndGatewayFailure(t *testing.T) {
	svc, _, otp, sms := newTestUserService(t)

	_, err := svc.SendOTP(context.Background(), "12345")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	sms.err = errors.New("gateway down")
	_, err = svc.SendOTP(context.Background(), "9876543210")
	assert.True(t, utils.IsKind(err, utils.KindExternalService))
	assert.Empty(t, otp.codes)
}

func TestAdminLifecycle(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.BootstrapAdmin(ctx, "Root@Example.com", "s3cret-pass", ""))
	require.NoError(t, svc.BootstrapAdmin(ctx, "root@example.com", "s3cret-pass", ""))

	admins, err := svc.ListAdmins(ctx, models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, admins.Items, 1)
	assert.Equal(t, "Administrator", admins.Items[0].Name)

	_, err = svc.AdminLogin(ctx, "root@example.com", "wrong-password")
	assert.True(t, utils.IsKind(err, utils.KindAuthentication))

	resp, err := svc.AdminLogin(ctx, "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	p, err := utils.ParsePrincipal(resp.Token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	_, err = svc.CreateAdmin(ctx, AdminInput{Name: "Dup", Email: "ROOT@example.com", Password: "another-pass"}, p.ID)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestClientsCannotUseAdminLogin(t *testing.T) {
	svc, _, _, _ := newTestUserService(t, models.User{ID: "u-1", Email: "c@example.com", Role: models.RoleClient})
	_, err := svc.AdminLogin(context.Background(), "c@example.com", "whatever")
	assert.True(t, utils.IsKind(err, utils.KindAuthentication))
}

func TestUpdateProfile(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t,
		models.User{ID: "u-1", PhoneNumber: "9000000001", Role: models.RoleClient},
		models.User{ID: "u-2", PhoneNumber: "9000000002", Email: "taken@example.com", Role: models.RoleClient},
	)
	ctx := context.Background()

	taken := "Taken@example.com"
	_, err := svc.UpdateProfile(ctx, "u-1", ProfilePatch{Email: &taken})
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	name, email, token := "Asha", "asha@example.com", "fcm-123"
	u, err := svc.UpdateProfile(ctx, "u-1", ProfilePatch{Name: &name, Email: &email, FCMToken: &token})
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "fcm-123", repo.Users["u-1"].FCMToken)
}

func TestDeleteUserSkipsAdmins(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t,
		models.User{ID: "u-1", Role: models.RoleClient},
		models.User{ID: "a-1", Role: models.RoleAdmin, Email: "a@example.com"},
	)

	assert.True(t, utils.IsKind(svc.DeleteUser(context.Background(), "a-1"), utils.KindNotFound))
	require.NoError(t, svc.DeleteUser(context.Background(), "u-1"))
	assert.NotContains(t, repo.Users, "u-1")
}
