package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// ExpenseRepository defines the persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	List(ctx context.Context, page Page) ([]*domain.Expense, error)
	TotalCost(ctx context.Context) (float64, error)
}

// FuelLogRepository defines the persistence operations for fuel logs.
type FuelLogRepository interface {
	Create(ctx context.Context, log *domain.FuelLog) error
	List(ctx context.Context, page Page) ([]*domain.FuelLog, error)

	// Totals sums the cost and the liters of every fuel log.
	Totals(ctx context.Context) (cost, liters float64, err error)
}
