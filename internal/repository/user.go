package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// UserRepository defines the persistence operations for console users.
type UserRepository interface {
	// Create persists a new user.
	// Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *domain.User) error
}
