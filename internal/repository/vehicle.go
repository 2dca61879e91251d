package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	// Returns ErrDuplicate if the license plate is taken.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByIDForUpdate retrieves a vehicle and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByLicensePlate retrieves a vehicle by license plate.
	GetByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// List retrieves vehicles ordered by creation time.
	List(ctx context.Context, page Page) ([]*domain.Vehicle, error)

	// Update updates an existing vehicle.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// CountByStatus counts vehicles per status, optionally restricted to one type.
	CountByStatus(ctx context.Context, vehicleType domain.VehicleType) (map[domain.VehicleStatus]int, error)
}
