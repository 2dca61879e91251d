package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

const vehicleColumns = `id, license_plate, name, make, model, year, type, fuel_type, max_capacity,
	odometer, purchase_price, current_value, status, created_at, updated_at`

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		v.ID,
		v.LicensePlate,
		v.Name,
		v.Make,
		v.Model,
		v.Year,
		v.Type,
		v.FuelType,
		v.MaxCapacity,
		v.Odometer,
		v.PurchasePrice,
		v.CurrentValue,
		v.Status,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return mapWriteError(err)
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a vehicle and locks its row.
func (r *VehicleRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error) {
	return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 FOR UPDATE`, id)
}

// GetByLicensePlate retrieves a vehicle by license plate.
func (r *VehicleRepository) GetByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE license_plate = $1`, plate)
}

func (r *VehicleRepository) getOne(ctx context.Context, query string, arg any) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// List retrieves vehicles ordered by creation time.
func (r *VehicleRepository) List(ctx context.Context, page repository.Page) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at, id` + pageClause(page)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []*domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// Update updates an existing vehicle. The license plate is immutable.
func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = $1, make = $2, model = $3, year = $4, type = $5, fuel_type = $6, max_capacity = $7,
			odometer = $8, purchase_price = $9, current_value = $10, status = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := r.q.ExecContext(ctx, query,
		v.Name,
		v.Make,
		v.Model,
		v.Year,
		v.Type,
		v.FuelType,
		v.MaxCapacity,
		v.Odometer,
		v.PurchasePrice,
		v.CurrentValue,
		v.Status,
		v.UpdatedAt,
		v.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	return checkAffected(result)
}

// CountByStatus counts vehicles per status.
func (r *VehicleRepository) CountByStatus(ctx context.Context, vehicleType domain.VehicleType) (map[domain.VehicleStatus]int, error) {
	query := `
		SELECT status, COUNT(*) FROM vehicles
		WHERE ($1 = '' OR type = $1)
		GROUP BY status
	`

	rows, err := r.q.QueryContext(ctx, query, string(vehicleType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.VehicleStatus]int)
	for rows.Next() {
		var status domain.VehicleStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID,
		&v.LicensePlate,
		&v.Name,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Type,
		&v.FuelType,
		&v.MaxCapacity,
		&v.Odometer,
		&v.PurchasePrice,
		&v.CurrentValue,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
