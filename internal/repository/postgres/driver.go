package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

const driverColumns = `id, name, license_number, license_category, license_expiry_date,
	performance_score, trip_completion_rate, status`

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// Create persists a new driver.
func (r *DriverRepository) Create(ctx context.Context, d *domain.Driver) error {
	query := `INSERT INTO drivers (` + driverColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.LicenseNumber,
		d.LicenseCategory,
		d.LicenseExpiryDate,
		d.PerformanceScore,
		d.TripCompletionRate,
		d.Status,
	)
	return mapWriteError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	return r.getOne(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a driver and locks its row.
func (r *DriverRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Driver, error) {
	return r.getOne(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = $1 FOR UPDATE`, id)
}

// GetByLicenseNumber retrieves a driver by license number.
func (r *DriverRepository) GetByLicenseNumber(ctx context.Context, number string) (*domain.Driver, error) {
	return r.getOne(ctx, `SELECT `+driverColumns+` FROM drivers WHERE license_number = $1`, number)
}

func (r *DriverRepository) getOne(ctx context.Context, query string, arg any) (*domain.Driver, error) {
	d, err := scanDriver(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List retrieves drivers ordered by name.
func (r *DriverRepository) List(ctx context.Context, page repository.Page) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY name, id`+pageClause(page))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []*domain.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	return drivers, rows.Err()
}

// Update updates an existing driver.
func (r *DriverRepository) Update(ctx context.Context, d *domain.Driver) error {
	query := `
		UPDATE drivers
		SET name = $1, license_number = $2, license_category = $3, license_expiry_date = $4,
			performance_score = $5, trip_completion_rate = $6, status = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		d.Name,
		d.LicenseNumber,
		d.LicenseCategory,
		d.LicenseExpiryDate,
		d.PerformanceScore,
		d.TripCompletionRate,
		d.Status,
		d.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	return checkAffected(result)
}

// SuspendExpired suspends drivers whose license expired before the given day.
func (r *DriverRepository) SuspendExpired(ctx context.Context, before time.Time) (int, error) {
	query := `
		UPDATE drivers SET status = $1
		WHERE license_expiry_date < $2 AND status NOT IN ($1, $3)
	`

	result, err := r.q.ExecContext(ctx, query, domain.DriverStatusSuspended, before, domain.DriverStatusOnTrip)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	return int(n), err
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.LicenseNumber,
		&d.LicenseCategory,
		&d.LicenseExpiryDate,
		&d.PerformanceScore,
		&d.TripCompletionRate,
		&d.Status,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
