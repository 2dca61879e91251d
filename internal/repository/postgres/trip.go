package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

const tripColumns = `id, vehicle_id, driver_id, cargo_weight, start_location, end_location, status,
	final_odometer, created_at, dispatched_at, completed_at, cancelled_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.VehicleID,
		trip.DriverID,
		trip.CargoWeight,
		trip.StartLocation,
		trip.EndLocation,
		trip.Status,
		nullFloat(trip.FinalOdometer),
		trip.CreatedAt,
		nullTime(trip.DispatchedAt),
		nullTime(trip.CompletedAt),
		nullTime(trip.CancelledAt),
	)

	return mapWriteError(err)
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	return r.getOne(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a trip and locks its row.
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	return r.getOne(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1 FOR UPDATE`, id)
}

func (r *TripRepository) getOne(ctx context.Context, query string, id string) (*domain.Trip, error) {
	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// List retrieves trips, newest first.
func (r *TripRepository) List(ctx context.Context, page repository.Page) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC, id` + pageClause(page)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []*domain.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET vehicle_id = $1, driver_id = $2, cargo_weight = $3, start_location = $4, end_location = $5,
			status = $6, final_odometer = $7, dispatched_at = $8, completed_at = $9, cancelled_at = $10
		WHERE id = $11
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.VehicleID,
		trip.DriverID,
		trip.CargoWeight,
		trip.StartLocation,
		trip.EndLocation,
		trip.Status,
		nullFloat(trip.FinalOdometer),
		nullTime(trip.DispatchedAt),
		nullTime(trip.CompletedAt),
		nullTime(trip.CancelledAt),
		trip.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	return checkAffected(result)
}

// CountByStatus counts trips in a status.
func (r *TripRepository) CountByStatus(ctx context.Context, status domain.TripStatus, vehicleType domain.VehicleType) (int, error) {
	query := `
		SELECT COUNT(*) FROM trips t
		JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.status = $1 AND ($2 = '' OR v.type = $2)
	`

	var n int
	err := r.q.QueryRowContext(ctx, query, status, string(vehicleType)).Scan(&n)
	return n, err
}

// CountByDriver returns the finished and completed trip counts of a driver.
func (r *TripRepository) CountByDriver(ctx context.Context, driverID string) (finished, completed int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $2 OR (status = $3 AND dispatched_at IS NOT NULL)),
			COUNT(*) FILTER (WHERE status = $2)
		FROM trips WHERE driver_id = $1
	`

	err = r.q.QueryRowContext(ctx, query, driverID, domain.TripStatusCompleted, domain.TripStatusCancelled).
		Scan(&finished, &completed)
	return finished, completed, err
}

// CompletedDistance returns the completed trip count and summed final odometer.
func (r *TripRepository) CompletedDistance(ctx context.Context) (count int, distance float64, err error) {
	query := `SELECT COUNT(*), COALESCE(SUM(final_odometer), 0) FROM trips WHERE status = $1`

	err = r.q.QueryRowContext(ctx, query, domain.TripStatusCompleted).Scan(&count, &distance)
	return count, distance, err
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var finalOdometer sql.NullFloat64
	var dispatchedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.VehicleID,
		&trip.DriverID,
		&trip.CargoWeight,
		&trip.StartLocation,
		&trip.EndLocation,
		&trip.Status,
		&finalOdometer,
		&trip.CreatedAt,
		&dispatchedAt,
		&completedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	trip.FinalOdometer = floatPtr(finalOdometer)
	if dispatchedAt.Valid {
		trip.DispatchedAt = dispatchedAt.Time
	}
	if completedAt.Valid {
		trip.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		trip.CancelledAt = cancelledAt.Time
	}

	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
