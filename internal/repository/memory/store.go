// Package memory is an in-process repository.Store used by tests and by
// the server when DB_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// Store keeps every entity in maps guarded by one RWMutex. Returned
// entities are copies, so callers never alias stored state.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	vehicles    map[string]*domain.Vehicle
	drivers     map[string]*domain.Driver
	trips       map[string]*domain.Trip
	maintenance map[string]*domain.MaintenanceLog
	expenses    map[string]*domain.Expense
	fuelLogs    map[string]*domain.FuelLog
	users       map[string]*domain.User
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		vehicles:    make(map[string]*domain.Vehicle),
		drivers:     make(map[string]*domain.Driver),
		trips:       make(map[string]*domain.Trip),
		maintenance: make(map[string]*domain.MaintenanceLog),
		expenses:    make(map[string]*domain.Expense),
		fuelLogs:    make(map[string]*domain.FuelLog),
		users:       make(map[string]*domain.User),
	}
}

func (s *Store) Vehicles() repository.VehicleRepository        { return vehicleRepo{s} }
func (s *Store) Drivers() repository.DriverRepository          { return driverRepo{s} }
func (s *Store) Trips() repository.TripRepository              { return tripRepo{s} }
func (s *Store) Maintenance() repository.MaintenanceRepository { return maintenanceRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository        { return expenseRepo{s} }
func (s *Store) FuelLogs() repository.FuelLogRepository        { return fuelLogRepo{s} }
func (s *Store) Users() repository.UserRepository              { return userRepo{s} }

// WithinTx runs fn with transactions serialized. On error every map is
// restored to the snapshot taken before fn ran.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	vehicles    map[string]*domain.Vehicle
	drivers     map[string]*domain.Driver
	trips       map[string]*domain.Trip
	maintenance map[string]*domain.MaintenanceLog
	expenses    map[string]*domain.Expense
	fuelLogs    map[string]*domain.FuelLog
	users       map[string]*domain.User
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		vehicles:    cloneMap(s.vehicles),
		drivers:     cloneMap(s.drivers),
		trips:       cloneMap(s.trips),
		maintenance: cloneMap(s.maintenance),
		expenses:    cloneMap(s.expenses),
		fuelLogs:    cloneMap(s.fuelLogs),
		users:       cloneMap(s.users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = snap.vehicles
	s.drivers = snap.drivers
	s.trips = snap.trips
	s.maintenance = snap.maintenance
	s.expenses = snap.expenses
	s.fuelLogs = snap.fuelLogs
	s.users = snap.users
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

// paginate applies a repository.Page to an already ordered slice.
func paginate[T any](items []T, page repository.Page) []T {
	if page.Skip >= len(items) {
		return items[:0]
	}
	if page.Skip > 0 {
		items = items[page.Skip:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

// Ensure Store implements repository.Store.
var _ repository.Store = (*Store)(nil)
