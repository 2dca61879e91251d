package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetflow/internal/auth"
	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// DefaultOTPTTL is how long a password reset code stays valid.
const DefaultOTPTTL = 5 * time.Minute

// AuthService handles console accounts.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.Service
	mailer auth.Mailer
	otpTTL time.Duration
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.Service, mailer auth.Mailer, otpTTL time.Duration) *AuthService {
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &AuthService{users: users, tokens: tokens, mailer: mailer, otpTTL: otpTTL, now: time.Now}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Email    string
	Password string
	Role     domain.Role
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	switch {
	case !strings.Contains(email, "@"):
		return nil, reject(ErrInvalidInput, "A valid email is required")
	case req.Password == "":
		return nil, reject(ErrInvalidInput, "Password is required")
	case !req.Role.Valid():
		return nil, reject(ErrInvalidInput, "Role must be one of Manager, Dispatcher, Safety Officer, Financial Analyst")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, reject(ErrAlreadyRegistered, "Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, reject(ErrAlreadyRegistered, "Email already registered")
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", reject(ErrInvalidCredentials, "Invalid credentials")
		}
		return "", err
	}
	if !s.tokens.CheckPassword(password, user.PasswordHash) {
		return "", reject(ErrInvalidCredentials, "Invalid credentials")
	}
	if !user.IsActive {
		return "", reject(ErrAccountDeactivated, "Account is deactivated")
	}

	return s.tokens.GenerateToken(user.Email, string(user.Role))
}

// ForgotPassword issues a one-time reset code and mails it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(ErrUserNotFound, "User not found")
		}
		return err
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	user.OTP = otp
	user.OTPExpiry = s.now().UTC().Add(s.otpTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.mailer.SendOTP(ctx, user.Email, otp)
}

// ResetPasswordRequest contains the parameters for redeeming a reset code.
type ResetPasswordRequest struct {
	Email       string
	OTP         string
	NewPassword string
}

// ResetPassword replaces the password when the code matches and is fresh.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword == "" {
		return reject(ErrInvalidInput, "New password is required")
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(ErrUserNotFound, "User not found")
		}
		return err
	}

	if user.OTP == "" || subtle.ConstantTimeCompare([]byte(user.OTP), []byte(req.OTP)) != 1 {
		return reject(ErrInvalidOTP, "Invalid OTP")
	}
	if s.now().UTC().After(user.OTPExpiry) {
		return reject(ErrOTPExpired, "OTP expired")
	}

	hash, err := s.tokens.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.OTP = ""
	user.OTPExpiry = time.Time{}
	return s.users.Update(ctx, user)
}
