package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByIDForUpdate retrieves a trip and locks its row until the
	// enclosing transaction ends. Callers lock the vehicle row first.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error)

	// List retrieves trips, newest first.
	List(ctx context.Context, page Page) ([]*domain.Trip, error)

	// Update updates an existing trip.
	// Returns ErrDuplicate if the vehicle already has a dispatched trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// CountByStatus counts trips in a status, optionally restricted to
	// vehicles of one type.
	CountByStatus(ctx context.Context, status domain.TripStatus, vehicleType domain.VehicleType) (int, error)

	// CountByDriver returns the number of finished trips of a driver
	// (completed, or cancelled after dispatch) and how many of them completed.
	CountByDriver(ctx context.Context, driverID string) (finished, completed int, err error)

	// CompletedDistance returns the number of completed trips and the sum of
	// their final odometer readings.
	CompletedDistance(ctx context.Context) (count int, distance float64, err error)
}
