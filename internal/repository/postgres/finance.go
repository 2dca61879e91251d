package postgres

import (
	"context"
	"database/sql"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// ExpenseRepository is a PostgreSQL implementation of repository.ExpenseRepository.
type ExpenseRepository struct {
	q Querier
}

// Create persists a new expense.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, vehicle_id, trip_id, expense_type, cost, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query, e.ID, e.VehicleID, nullString(e.TripID), e.ExpenseType, e.Cost, e.Date)
	return mapWriteError(err)
}

// List retrieves expenses, newest first.
func (r *ExpenseRepository) List(ctx context.Context, page repository.Page) ([]*domain.Expense, error) {
	query := `SELECT id, vehicle_id, trip_id, expense_type, cost, date FROM expenses ORDER BY date DESC, id` + pageClause(page)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []*domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		var tripID sql.NullString
		if err := rows.Scan(&e.ID, &e.VehicleID, &tripID, &e.ExpenseType, &e.Cost, &e.Date); err != nil {
			return nil, err
		}
		e.TripID = tripID.String
		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}

// TotalCost sums the cost of every expense.
func (r *ExpenseRepository) TotalCost(ctx context.Context) (float64, error) {
	var total float64
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(cost), 0) FROM expenses`).Scan(&total)
	return total, err
}

// FuelLogRepository is a PostgreSQL implementation of repository.FuelLogRepository.
type FuelLogRepository struct {
	q Querier
}

// Create persists a new fuel log.
func (r *FuelLogRepository) Create(ctx context.Context, f *domain.FuelLog) error {
	query := `
		INSERT INTO fuel_logs (id, vehicle_id, fuel_type, quantity_liters, total_cost, date, odometer_reading)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		f.ID,
		f.VehicleID,
		f.FuelType,
		f.QuantityLiters,
		f.TotalCost,
		f.Date,
		nullFloat(f.OdometerReading),
	)
	return mapWriteError(err)
}

// List retrieves fuel logs, newest first.
func (r *FuelLogRepository) List(ctx context.Context, page repository.Page) ([]*domain.FuelLog, error) {
	query := `
		SELECT id, vehicle_id, fuel_type, quantity_liters, total_cost, date, odometer_reading
		FROM fuel_logs ORDER BY date DESC, id` + pageClause(page)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.FuelLog{}
	for rows.Next() {
		var f domain.FuelLog
		var odometer sql.NullFloat64
		if err := rows.Scan(&f.ID, &f.VehicleID, &f.FuelType, &f.QuantityLiters, &f.TotalCost, &f.Date, &odometer); err != nil {
			return nil, err
		}
		f.OdometerReading = floatPtr(odometer)
		logs = append(logs, &f)
	}

	return logs, rows.Err()
}

// Totals sums the cost and liters of every fuel log.
func (r *FuelLogRepository) Totals(ctx context.Context) (cost, liters float64, err error) {
	query := `SELECT COALESCE(SUM(total_cost), 0), COALESCE(SUM(quantity_liters), 0) FROM fuel_logs`
	err = r.q.QueryRowContext(ctx, query).Scan(&cost, &liters)
	return cost, liters, err
}

var (
	_ repository.ExpenseRepository = (*ExpenseRepository)(nil)
	_ repository.FuelLogRepository = (*FuelLogRepository)(nil)
)
