package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ertugrul2020/pos/internal/config"
	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/middleware"
)

func buildAuth(t *testing.T, mailer *stubMailer) (*authService, *stubSettings) {
	t.Helper()
	settings := newStubSettings()
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	settings.settings.AdminPasswordHash = string(hash)

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 12}
	svc := NewAuthService(settings, mailer, cfg).(*authService)
	return svc, settings
}

func TestLogin_CashierIsCredentialFree(t *testing.T) {
	svc, _ := buildAuth(t, &stubMailer{})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Role: middleware.RoleCashier})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, middleware.RoleCashier, resp.Role)
}

func TestLogin_AdminPassword(t *testing.T) {
	svc, _ := buildAuth(t, &stubMailer{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Role: middleware.RoleAdmin, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Role: middleware.RoleAdmin, Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, middleware.RoleAdmin, resp.Role)
}

func TestRecover_MismatchedContact(t *testing.T) {
	svc, _ := buildAuth(t, &stubMailer{configured: true})

	_, err := svc.Recover(context.Background(), dto.RecoverRequest{
		Email: "admin@example.com",
		Phone: "+209999999999",
	})
	assert.ErrorIs(t, err, ErrRecoveryMismatch)
}

// mailedToken pulls the token out of the reset mail body.
func mailedToken(t *testing.T, mailer *stubMailer) string {
	t.Helper()
	require.NotEmpty(t, mailer.sent)
	body := mailer.sent[len(mailer.sent)-1].body
	firstLine := strings.SplitN(body, "\n", 2)[0]
	parts := strings.Split(firstLine, ": ")
	require.Len(t, parts, 2)
	return strings.TrimSpace(parts[1])
}

func TestRecoverReset_Flow(t *testing.T) {
	mailer := &stubMailer{configured: true}
	svc, settings := buildAuth(t, mailer)

	_, err := svc.Recover(context.Background(), dto.RecoverRequest{
		Email: "admin@example.com",
		Phone: "+201000000000",
	})
	require.NoError(t, err)
	token := mailedToken(t, mailer)

	require.NoError(t, svc.Reset(context.Background(), dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: "secret9",
	}))

	// The stored hash now verifies the new password, not the old one
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(settings.settings.AdminPasswordHash), []byte("secret9")))
	assert.Error(t, bcrypt.CompareHashAndPassword(
		[]byte(settings.settings.AdminPasswordHash), []byte("1234")))

	// Tokens are single-use
	err = svc.Reset(context.Background(), dto.ResetPasswordRequest{Token: token, NewPassword: "again"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestReset_ExpiredToken(t *testing.T) {
	mailer := &stubMailer{configured: true}
	svc, _ := buildAuth(t, mailer)

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	_, err := svc.Recover(context.Background(), dto.RecoverRequest{
		Email: "admin@example.com",
		Phone: "+201000000000",
	})
	require.NoError(t, err)
	token := mailedToken(t, mailer)

	svc.now = func() time.Time { return base.Add(16 * time.Minute) }
	err = svc.Reset(context.Background(), dto.ResetPasswordRequest{Token: token, NewPassword: "late"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestReset_UnknownToken(t *testing.T) {
	svc, _ := buildAuth(t, &stubMailer{})

	err := svc.Reset(context.Background(), dto.ResetPasswordRequest{Token: "nope", NewPassword: "x"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestChangePassword(t *testing.T) {
	svc, settings := buildAuth(t, &stubMailer{})

	err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "fresh1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
		CurrentPassword: "1234",
		NewPassword:     "fresh1",
	}))
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(settings.settings.AdminPasswordHash), []byte("fresh1")))
}
