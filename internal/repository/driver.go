package repository

import (
	"context"
	"time"

	"fleetflow/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create persists a new driver.
	// Returns ErrDuplicate if the license number is taken.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByIDForUpdate retrieves a driver and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Driver, error)

	// GetByLicenseNumber retrieves a driver by license number.
	GetByLicenseNumber(ctx context.Context, number string) (*domain.Driver, error)

	// List retrieves drivers ordered by name.
	List(ctx context.Context, page Page) ([]*domain.Driver, error)

	// Update updates an existing driver.
	Update(ctx context.Context, driver *domain.Driver) error

	// SuspendExpired suspends every driver whose license expired before the
	// given day and who is not already suspended or on a trip.
	// Returns the number of drivers suspended.
	SuspendExpired(ctx context.Context, before time.Time) (int, error)
}
