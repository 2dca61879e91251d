package memory

import (
	"context"
	"sort"
	"time"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

type driverRepo struct{ s *Store }

func (r driverRepo) Create(ctx context.Context, d *domain.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.drivers {
		if existing.LicenseNumber == d.LicenseNumber {
			return repository.ErrDuplicate
		}
	}
	c := *d
	r.s.drivers[d.ID] = &c
	return nil
}

func (r driverRepo) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (r driverRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Driver, error) {
	return r.GetByID(ctx, id)
}

func (r driverRepo) GetByLicenseNumber(ctx context.Context, number string) (*domain.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.drivers {
		if d.LicenseNumber == number {
			c := *d
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r driverRepo) List(ctx context.Context, page repository.Page) ([]*domain.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Driver, 0, len(r.s.drivers))
	for _, d := range r.s.drivers {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (r driverRepo) Update(ctx context.Context, d *domain.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.drivers[d.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.s.drivers {
		if id != d.ID && existing.LicenseNumber == d.LicenseNumber {
			return repository.ErrDuplicate
		}
	}
	c := *d
	r.s.drivers[d.ID] = &c
	return nil
}

func (r driverRepo) SuspendExpired(ctx context.Context, before time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, d := range r.s.drivers {
		if !d.LicenseExpiryDate.Before(before) {
			continue
		}
		if d.Status == domain.DriverStatusSuspended || d.Status == domain.DriverStatusOnTrip {
			continue
		}
		d.Status = domain.DriverStatusSuspended
		n++
	}
	return n, nil
}
