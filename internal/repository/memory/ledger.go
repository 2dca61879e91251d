package memory

import (
	"context"
	"sort"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

type maintenanceRepo struct{ s *Store }

func (r maintenanceRepo) Create(ctx context.Context, m *domain.MaintenanceLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.maintenance[m.ID] = &c
	return nil
}

func (r maintenanceRepo) GetByID(ctx context.Context, id string) (*domain.MaintenanceLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.maintenance[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r maintenanceRepo) List(ctx context.Context, page repository.Page) ([]*domain.MaintenanceLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.MaintenanceLog, 0, len(r.s.maintenance))
	for _, m := range r.s.maintenance {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (r maintenanceRepo) Update(ctx context.Context, m *domain.MaintenanceLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.maintenance[m.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *m
	r.s.maintenance[m.ID] = &c
	return nil
}

func (r maintenanceRepo) TotalCost(ctx context.Context) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total float64
	for _, m := range r.s.maintenance {
		total += m.Cost
	}
	return total, nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	r.s.expenses[e.ID] = &c
	return nil
}

func (r expenseRepo) List(ctx context.Context, page repository.Page) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Expense, 0, len(r.s.expenses))
	for _, e := range r.s.expenses {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (r expenseRepo) TotalCost(ctx context.Context) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total float64
	for _, e := range r.s.expenses {
		total += e.Cost
	}
	return total, nil
}

type fuelLogRepo struct{ s *Store }

func (r fuelLogRepo) Create(ctx context.Context, f *domain.FuelLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *f
	r.s.fuelLogs[f.ID] = &c
	return nil
}

func (r fuelLogRepo) List(ctx context.Context, page repository.Page) ([]*domain.FuelLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.FuelLog, 0, len(r.s.fuelLogs))
	for _, f := range r.s.fuelLogs {
		c := *f
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (r fuelLogRepo) Totals(ctx context.Context) (cost, liters float64, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, f := range r.s.fuelLogs {
		cost += f.TotalCost
		liters += f.QuantityLiters
	}
	return cost, liters, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) Update(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}
