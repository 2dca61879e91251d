package memory

import (
	"context"
	"sort"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

type vehicleRepo struct{ s *Store }

func (r vehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.vehicles {
		if existing.LicensePlate == v.LicensePlate {
			return repository.ErrDuplicate
		}
	}
	c := *v
	r.s.vehicles[v.ID] = &c
	return nil
}

func (r vehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *v
	return &c, nil
}

// GetByIDForUpdate needs no row lock: WithinTx already serializes writers.
func (r vehicleRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error) {
	return r.GetByID(ctx, id)
}

func (r vehicleRepo) GetByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, v := range r.s.vehicles {
		if v.LicensePlate == plate {
			c := *v
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r vehicleRepo) List(ctx context.Context, page repository.Page) ([]*domain.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Vehicle, 0, len(r.s.vehicles))
	for _, v := range r.s.vehicles {
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (r vehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.vehicles[v.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c := *v
	c.LicensePlate = existing.LicensePlate
	r.s.vehicles[v.ID] = &c
	return nil
}

func (r vehicleRepo) CountByStatus(ctx context.Context, vehicleType domain.VehicleType) (map[domain.VehicleStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[domain.VehicleStatus]int)
	for _, v := range r.s.vehicles {
		if vehicleType != "" && v.Type != vehicleType {
			continue
		}
		counts[v.Status]++
	}
	return counts, nil
}
