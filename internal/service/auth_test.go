package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/auth"
	"fleetflow/internal/domain"
	"fleetflow/internal/repository/memory"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent map[string]string
}

func (m *recordingMailer) SendOTP(ctx context.Context, email, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[email] = otp
	return nil
}

func (m *recordingMailer) last(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[email]
}

func newAuthService(t *testing.T) (*AuthService, *auth.Service, *recordingMailer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewService("test-secret", time.Hour)
	mailer := &recordingMailer{}
	svc := NewAuthService(store.Users(), tokens, mailer, 0)
	svc.now = fixedClock
	return svc, tokens, mailer, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Email: " Dispatch@Fleet.io ", Password: "secret", Role: domain.RoleDispatcher})
	require.NoError(t, err)
	assert.Equal(t, "dispatch@fleet.io", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret", user.PasswordHash)

	token, err := svc.Login(ctx, "DISPATCH@fleet.io", "secret")
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dispatch@fleet.io", claims.Subject)
	assert.Equal(t, string(domain.RoleDispatcher), claims.Role)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.io", Password: "x", Role: domain.RoleManager})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "A@B.io", Password: "y", Role: domain.RoleManager})
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, "Email already registered", err.Error())

	_, err = svc.Register(ctx, RegisterRequest{Email: "c@b.io", Password: "y", Role: "Janitor"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "y", Role: domain.RoleManager})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _, store := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, RegisterRequest{Email: "a@b.io", Password: "right", Role: domain.RoleManager})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.io", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, err = svc.Login(ctx, "nobody@b.io", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user.IsActive = false
	require.NoError(t, store.Users().Update(ctx, user))
	_, err = svc.Login(ctx, "a@b.io", "right")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestPasswordReset(t *testing.T) {
	svc, _, mailer, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.io", Password: "old", Role: domain.RoleFinancialAnalyst})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "a@b.io"))
	otp := mailer.last("a@b.io")
	require.Len(t, otp, 6)

	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "a@b.io", OTP: "nope", NewPassword: "new"})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{Email: "a@b.io", OTP: otp, NewPassword: "new"}))

	_, err = svc.Login(ctx, "a@b.io", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "a@b.io", "new")
	assert.NoError(t, err)

	// The code is single use.
	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "a@b.io", OTP: otp, NewPassword: "again"})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestPasswordReset_Expired(t *testing.T) {
	svc, _, mailer, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.io", Password: "old", Role: domain.RoleSafetyOfficer})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@b.io"))

	svc.now = func() time.Time { return testNow.Add(DefaultOTPTTL + time.Second) }
	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "a@b.io", OTP: mailer.last("a@b.io"), NewPassword: "new"})

	require.ErrorIs(t, err, ErrOTPExpired)
	assert.Equal(t, "OTP expired", err.Error())
}

func TestForgotPassword_UnknownUser(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	err := svc.ForgotPassword(context.Background(), "ghost@b.io")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ──────────────────────────────────────────────
// LICENSE SYNC LOOP
// ──────────────────────────────────────────────

type countingSyncer struct {
	calls chan struct{}
}

func (c *countingSyncer) SyncExpiredLicenses(ctx context.Context) (int, error) {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestRunLicenseSync_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	syncer := &countingSyncer{calls: make(chan struct{}, 1)}

	done := make(chan struct{})
	go func() {
		RunLicenseSync(ctx, syncer, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-syncer.calls:
	case <-time.After(time.Second):
		t.Fatal("license sync never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("license sync did not stop after cancel")
	}
}
