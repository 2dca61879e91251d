package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetflow/internal/domain"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
)

// RegistryService handles vehicle registry operations.
type RegistryService struct {
	statsInvalidator
	store    repository.Store
	notifier *NotificationService
	now      func() time.Time
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(store repository.Store, cache redis.StatsCacheInterface, notifier *NotificationService) *RegistryService {
	return &RegistryService{
		statsInvalidator: statsInvalidator{cache: cache},
		store:            store,
		notifier:         notifier,
		now:              time.Now,
	}
}

// CreateVehicleRequest contains the parameters for registering a vehicle.
type CreateVehicleRequest struct {
	LicensePlate  string
	Name          string
	Make          string
	Model         string
	Year          int
	Type          domain.VehicleType
	FuelType      domain.FuelType
	MaxCapacity   float64
	Odometer      float64
	PurchasePrice float64
	CurrentValue  float64
}

func (r CreateVehicleRequest) validate() error {
	switch {
	case strings.TrimSpace(r.LicensePlate) == "":
		return reject(ErrInvalidInput, "License plate is required")
	case strings.TrimSpace(r.Name) == "":
		return reject(ErrInvalidInput, "Name is required")
	case !r.Type.Valid():
		return reject(ErrInvalidInput, "Vehicle type must be one of Truck, Van, Bike")
	case r.FuelType != "" && !r.FuelType.Valid():
		return reject(ErrInvalidInput, "Fuel type must be one of Petrol, Diesel, Electric")
	case r.MaxCapacity <= 0:
		return reject(ErrInvalidInput, "Max capacity must be greater than 0")
	case r.Odometer < 0:
		return reject(ErrInvalidInput, "Odometer cannot be negative")
	}
	return nil
}

// ListVehicles returns a page of vehicles.
func (s *RegistryService) ListVehicles(ctx context.Context, page repository.Page) ([]*domain.Vehicle, error) {
	return s.store.Vehicles().List(ctx, page)
}

// GetVehicle returns one vehicle.
func (s *RegistryService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	v, err := s.store.Vehicles().GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(ErrVehicleNotFound, "Vehicle not found")
	}
	return v, err
}

// CreateVehicle registers a vehicle in the Available state.
func (s *RegistryService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*domain.Vehicle, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	plate := strings.TrimSpace(req.LicensePlate)
	if _, err := s.store.Vehicles().GetByLicensePlate(ctx, plate); err == nil {
		return nil, reject(ErrAlreadyRegistered, "License plate already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	fuel := req.FuelType
	if fuel == "" {
		fuel = domain.FuelTypePetrol
	}

	now := s.now().UTC()
	vehicle := &domain.Vehicle{
		ID:            uuid.New().String(),
		LicensePlate:  plate,
		Name:          strings.TrimSpace(req.Name),
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		Type:          req.Type,
		FuelType:      fuel,
		MaxCapacity:   req.MaxCapacity,
		Odometer:      req.Odometer,
		PurchasePrice: req.PurchasePrice,
		CurrentValue:  req.CurrentValue,
		Status:        domain.VehicleStatusAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Vehicles().Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, reject(ErrAlreadyRegistered, "License plate already registered")
		}
		return nil, err
	}

	s.invalidate(ctx)
	return vehicle, nil
}

// ToggleOutOfService flips a vehicle between Out of Service and Available.
// Vehicles on a trip or in the shop cannot be toggled.
func (s *RegistryService) ToggleOutOfService(ctx context.Context, id string) (*domain.Vehicle, error) {
	var vehicle *domain.Vehicle
	var from domain.VehicleStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		v, err := tx.Vehicles().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(ErrVehicleNotFound, "Vehicle not found")
			}
			return err
		}

		from = v.Status
		switch v.Status {
		case domain.VehicleStatusOutOfService:
			v.Status = domain.VehicleStatusAvailable
		case domain.VehicleStatusAvailable:
			v.Status = domain.VehicleStatusOutOfService
		default:
			return reject(ErrConflict, "Cannot change service status while vehicle is %s", v.Status)
		}

		v.UpdatedAt = s.now().UTC()
		if err := tx.Vehicles().Update(ctx, v); err != nil {
			return err
		}
		vehicle = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyVehicleStatusChanged(ctx, vehicle, from)
	return vehicle, nil
}
