package memory

import (
	"context"
	"sort"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

type tripRepo struct{ s *Store }

func (r tripRepo) Create(ctx context.Context, t *domain.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *t
	r.s.trips[t.ID] = &c
	return nil
}

func (r tripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r tripRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r tripRepo) List(ctx context.Context, page repository.Page) ([]*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Trip, 0, len(r.s.trips))
	for _, t := range r.s.trips {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

// Update mirrors the partial unique index on dispatched trips per vehicle.
func (r tripRepo) Update(ctx context.Context, t *domain.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[t.ID]; !ok {
		return repository.ErrNotFound
	}
	if t.Status == domain.TripStatusDispatched {
		for id, other := range r.s.trips {
			if id != t.ID && other.VehicleID == t.VehicleID && other.Status == domain.TripStatusDispatched {
				return repository.ErrDuplicate
			}
		}
	}
	c := *t
	r.s.trips[t.ID] = &c
	return nil
}

func (r tripRepo) CountByStatus(ctx context.Context, status domain.TripStatus, vehicleType domain.VehicleType) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, t := range r.s.trips {
		if t.Status != status {
			continue
		}
		if vehicleType != "" {
			v, ok := r.s.vehicles[t.VehicleID]
			if !ok || v.Type != vehicleType {
				continue
			}
		}
		n++
	}
	return n, nil
}

func (r tripRepo) CountByDriver(ctx context.Context, driverID string) (finished, completed int, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.trips {
		if t.DriverID != driverID {
			continue
		}
		switch t.Status {
		case domain.TripStatusCompleted:
			completed++
			finished++
		case domain.TripStatusCancelled:
			if !t.DispatchedAt.IsZero() {
				finished++
			}
		}
	}
	return finished, completed, nil
}

func (r tripRepo) CompletedDistance(ctx context.Context) (count int, distance float64, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.trips {
		if t.Status != domain.TripStatusCompleted {
			continue
		}
		count++
		if t.FinalOdometer != nil {
			distance += *t.FinalOdometer
		}
	}
	return count, distance, nil
}
