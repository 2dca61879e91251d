package console

import (
	"context"
	"sync"

	"fleetflow/internal/api"
)

// Page is a searchable list backed by one collection endpoint.
type Page[T any] struct {
	fetch  func(ctx context.Context) ([]T, error)
	search func(T) []string

	mu    sync.RWMutex
	items []T
}

// NewPage creates a page. search projects the fields Filter matches on.
func NewPage[T any](fetch func(ctx context.Context) ([]T, error), search func(T) []string) *Page[T] {
	return &Page[T]{fetch: fetch, search: search}
}

// Load replaces the items with a fresh fetch. On failure the previous
// items are kept.
func (p *Page[T]) Load(ctx context.Context) error {
	items, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return nil
}

// Items returns a copy of the loaded items.
func (p *Page[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]T(nil), p.items...)
}

// Filter returns the items matching term case-insensitively.
func (p *Page[T]) Filter(term string) []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return filter(p.items, term, p.search)
}

// Submit runs create and reloads the page. A failed create leaves the
// items untouched.
func (p *Page[T]) Submit(ctx context.Context, create func(ctx context.Context) error) error {
	if err := create(ctx); err != nil {
		return err
	}
	return p.Load(ctx)
}

// NewVehiclePage lists vehicles searchable by plate, name, make and model.
func NewVehiclePage(fetch func(ctx context.Context) ([]api.Vehicle, error)) *Page[api.Vehicle] {
	return NewPage(fetch, func(v api.Vehicle) []string {
		return []string{v.LicensePlate, v.Name, v.Make, v.Model}
	})
}

// NewDriverPage lists drivers searchable by name and license number.
func NewDriverPage(fetch func(ctx context.Context) ([]api.Driver, error)) *Page[api.Driver] {
	return NewPage(fetch, func(d api.Driver) []string {
		return []string{d.Name, d.LicenseNumber}
	})
}

// NewMaintenancePage lists service logs searchable by type and
// description.
func NewMaintenancePage(fetch func(ctx context.Context) ([]api.MaintenanceLog, error)) *Page[api.MaintenanceLog] {
	return NewPage(fetch, func(m api.MaintenanceLog) []string {
		return []string{m.ServiceType, m.Description}
	})
}

// NewExpensePage lists expenses searchable by type.
func NewExpensePage(fetch func(ctx context.Context) ([]api.Expense, error)) *Page[api.Expense] {
	return NewPage(fetch, func(e api.Expense) []string {
		return []string{e.ExpenseType}
	})
}

// NewFuelPage lists fuel logs searchable by fuel type.
func NewFuelPage(fetch func(ctx context.Context) ([]api.FuelLog, error)) *Page[api.FuelLog] {
	return NewPage(fetch, func(f api.FuelLog) []string {
		return []string{f.FuelType}
	})
}
