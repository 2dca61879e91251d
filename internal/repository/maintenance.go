package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// MaintenanceRepository defines the persistence operations for maintenance logs.
type MaintenanceRepository interface {
	// Create persists a new maintenance log.
	Create(ctx context.Context, log *domain.MaintenanceLog) error

	// GetByID retrieves a maintenance log by ID.
	GetByID(ctx context.Context, id string) (*domain.MaintenanceLog, error)

	// List retrieves maintenance logs, newest first.
	List(ctx context.Context, page Page) ([]*domain.MaintenanceLog, error)

	// Update updates an existing maintenance log.
	Update(ctx context.Context, log *domain.MaintenanceLog) error

	// TotalCost sums the cost of every maintenance log.
	TotalCost(ctx context.Context) (float64, error)
}
