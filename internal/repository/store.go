package repository

import "context"

// Page bounds a list query. A zero Limit means no limit.
type Page struct {
	Skip  int
	Limit int
}

// Store groups the repositories of one storage backend.
type Store interface {
	Vehicles() VehicleRepository
	Drivers() DriverRepository
	Trips() TripRepository
	Maintenance() MaintenanceRepository
	Expenses() ExpenseRepository
	FuelLogs() FuelLogRepository
	Users() UserRepository

	// WithinTx runs fn against a transactional view of the store.
	// The transaction is committed if fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
