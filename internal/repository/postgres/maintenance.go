package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

const maintenanceColumns = `id, vehicle_id, service_type, description, cost, date, started_at, completed_at`

// MaintenanceRepository is a PostgreSQL implementation of repository.MaintenanceRepository.
type MaintenanceRepository struct {
	q Querier
}

// Create persists a new maintenance log.
func (r *MaintenanceRepository) Create(ctx context.Context, m *domain.MaintenanceLog) error {
	query := `INSERT INTO maintenance_logs (` + maintenanceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.ExecContext(ctx, query,
		m.ID,
		m.VehicleID,
		m.ServiceType,
		m.Description,
		m.Cost,
		m.Date,
		m.StartedAt,
		nullTime(m.CompletedAt),
	)
	return mapWriteError(err)
}

// GetByID retrieves a maintenance log by ID.
func (r *MaintenanceRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceLog, error) {
	m, err := scanMaintenance(r.q.QueryRowContext(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List retrieves maintenance logs, newest first.
func (r *MaintenanceRepository) List(ctx context.Context, page repository.Page) ([]*domain.MaintenanceLog, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_logs ORDER BY started_at DESC, id` + pageClause(page)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.MaintenanceLog{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, m)
	}

	return logs, rows.Err()
}

// Update updates an existing maintenance log.
func (r *MaintenanceRepository) Update(ctx context.Context, m *domain.MaintenanceLog) error {
	query := `
		UPDATE maintenance_logs
		SET service_type = $1, description = $2, cost = $3, date = $4, completed_at = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query, m.ServiceType, m.Description, m.Cost, m.Date, nullTime(m.CompletedAt), m.ID)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

// TotalCost sums the cost of every maintenance log.
func (r *MaintenanceRepository) TotalCost(ctx context.Context) (float64, error) {
	var total float64
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(cost), 0) FROM maintenance_logs`).Scan(&total)
	return total, err
}

func scanMaintenance(row rowScanner) (*domain.MaintenanceLog, error) {
	var m domain.MaintenanceLog
	var completedAt sql.NullTime

	if err := row.Scan(&m.ID, &m.VehicleID, &m.ServiceType, &m.Description, &m.Cost, &m.Date, &m.StartedAt, &completedAt); err != nil {
		return nil, err
	}

	if completedAt.Valid {
		m.CompletedAt = completedAt.Time
	}
	return &m, nil
}

// Ensure MaintenanceRepository implements repository.MaintenanceRepository.
var _ repository.MaintenanceRepository = (*MaintenanceRepository)(nil)
