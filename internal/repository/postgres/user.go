package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, is_active, otp, otp_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.IsActive, user.OTP, nullTime(user.OTPExpiry), user.CreatedAt)
	return mapWriteError(err)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, role, is_active, otp, otp_expiry, created_at
		FROM users WHERE email = $1
	`
	row := r.q.QueryRowContext(ctx, query, email)

	var user domain.User
	var otpExpiry sql.NullTime
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive, &user.OTP, &otpExpiry, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if otpExpiry.Valid {
		user.OTPExpiry = otpExpiry.Time
	}
	return &user, nil
}

// Update updates the mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET password_hash = $1, role = $2, is_active = $3, otp = $4, otp_expiry = $5
		WHERE id = $6
	`
	result, err := r.q.ExecContext(ctx, query,
		user.PasswordHash, user.Role, user.IsActive, user.OTP, nullTime(user.OTPExpiry), user.ID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
