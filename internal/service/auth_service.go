package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ertugrul2020/pos/internal/config"
	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/middleware"
)

const resetTokenTTL = 15 * time.Minute

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRecoveryMismatch   = errors.New("recovery details do not match")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
)

// TokenMailer is the slice of the mailer the auth service needs.
type TokenMailer interface {
	Configured() bool
	Send(to, subject, body string) error
}

type AuthService interface {
	// Login issues a session token. Cashier sessions are credential-free;
	// admin sessions require the store password.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Recover matches the stored admin email+phone pair and mails a one-time
	// reset token. The password itself is never disclosed.
	Recover(ctx context.Context, req dto.RecoverRequest) (*dto.RecoverResponse, error)
	Reset(ctx context.Context, req dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	// VerifyAdminPassword is the step-up check for destructive catalog actions.
	VerifyAdminPassword(ctx context.Context, password string) error
}

type resetToken struct {
	token     string
	expiresAt time.Time
}

type authService struct {
	settings SettingsService
	mailer   TokenMailer
	cfg      *config.Config
	now      func() time.Time

	mu      sync.Mutex
	pending *resetToken
}

func NewAuthService(settings SettingsService, mailer TokenMailer, cfg *config.Config) AuthService {
	return &authService{settings: settings, mailer: mailer, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Role == middleware.RoleAdmin {
		if err := s.VerifyAdminPassword(ctx, req.Password); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	expiresAt := s.now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	token, err := s.generateToken(req.Role, expiresAt)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		Role:      req.Role,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *authService) generateToken(role string, expiresAt time.Time) (string, error) {
	claims := middleware.JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) Recover(ctx context.Context, req dto.RecoverRequest) (*dto.RecoverResponse, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.AdminEmail == "" || settings.AdminEmail != req.Email || settings.AdminPhone != req.Phone {
		return nil, ErrRecoveryMismatch
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.pending = &resetToken{token: token, expiresAt: s.now().Add(resetTokenTTL)}
	s.mu.Unlock()

	if s.mailer != nil && s.mailer.Configured() {
		body := fmt.Sprintf("Password reset token for %s: %s\nValid for 15 minutes.", settings.StoreName, token)
		if err := s.mailer.Send(settings.AdminEmail, "Password reset", body); err != nil {
			log.Error().Err(err).Msg("auth: failed to mail reset token")
			return nil, errors.New("could not deliver reset token")
		}
	} else {
		// No SMTP on a counter deployment is common. The token still only
		// lands in the server log the operator controls.
		log.Warn().Str("token", token).Msg("auth: SMTP unconfigured, reset token logged instead")
	}

	return &dto.RecoverResponse{Message: "reset token sent"}, nil
}

func (s *authService) Reset(ctx context.Context, req dto.ResetPasswordRequest) error {
	s.mu.Lock()
	pending := s.pending
	if pending != nil && pending.token == req.Token && s.now().Before(pending.expiresAt) {
		// One-time use: consume before the hash write so a failed save still
		// forces a fresh recover round.
		s.pending = nil
		s.mu.Unlock()

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		return s.settings.SetPasswordHash(ctx, string(hash))
	}
	s.mu.Unlock()
	return ErrResetTokenInvalid
}

func (s *authService) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error {
	if err := s.VerifyAdminPassword(ctx, req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.settings.SetPasswordHash(ctx, string(hash))
}

func (s *authService) VerifyAdminPassword(ctx context.Context, password string) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.AdminPasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
