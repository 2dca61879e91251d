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

// MaintenanceService handles service logs and the In Shop transition.
type MaintenanceService struct {
	statsInvalidator
	store    repository.Store
	notifier *NotificationService
	now      func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(store repository.Store, cache redis.StatsCacheInterface, notifier *NotificationService) *MaintenanceService {
	return &MaintenanceService{
		statsInvalidator: statsInvalidator{cache: cache},
		store:            store,
		notifier:         notifier,
		now:              time.Now,
	}
}

// CreateMaintenanceRequest contains the parameters for opening a service log.
type CreateMaintenanceRequest struct {
	VehicleID   string
	ServiceType string
	Description string
	Cost        float64
	Date        time.Time // defaults to today
}

// ListMaintenance returns a page of maintenance logs, newest first.
func (s *MaintenanceService) ListMaintenance(ctx context.Context, page repository.Page) ([]*domain.MaintenanceLog, error) {
	return s.store.Maintenance().List(ctx, page)
}

// CreateMaintenance opens a service log and moves the vehicle In Shop.
func (s *MaintenanceService) CreateMaintenance(ctx context.Context, req CreateMaintenanceRequest) (*domain.MaintenanceLog, error) {
	if req.VehicleID == "" {
		return nil, reject(ErrInvalidInput, "Vehicle is required")
	}
	if strings.TrimSpace(req.ServiceType) == "" {
		return nil, reject(ErrInvalidInput, "Service type is required")
	}
	if req.Cost < 0 {
		return nil, reject(ErrInvalidInput, "Cost cannot be negative")
	}

	var entry *domain.MaintenanceLog
	var vehicle *domain.Vehicle
	var from domain.VehicleStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		v, err := tx.Vehicles().GetByIDForUpdate(ctx, req.VehicleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(ErrVehicleNotFound, "Vehicle not found")
			}
			return err
		}

		switch v.Status {
		case domain.VehicleStatusOnTrip:
			return reject(ErrVehicleUnavailable, "Cannot send vehicle to maintenance while On Trip")
		case domain.VehicleStatusInShop:
			return reject(ErrVehicleUnavailable, "Vehicle is already in maintenance")
		}

		now := s.now().UTC()
		date := req.Date
		if date.IsZero() {
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}

		m := &domain.MaintenanceLog{
			ID:          uuid.New().String(),
			VehicleID:   v.ID,
			ServiceType: strings.TrimSpace(req.ServiceType),
			Description: req.Description,
			Cost:        req.Cost,
			Date:        date,
			StartedAt:   now,
		}
		if err := tx.Maintenance().Create(ctx, m); err != nil {
			return err
		}

		from = v.Status
		v.Status = domain.VehicleStatusInShop
		v.UpdatedAt = now
		if err := tx.Vehicles().Update(ctx, v); err != nil {
			return err
		}

		entry, vehicle = m, v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyMaintenanceOpened(ctx, entry)
	s.notifier.NotifyVehicleStatusChanged(ctx, vehicle, from)
	return entry, nil
}

// CompleteMaintenance closes a service log and returns the vehicle to service.
func (s *MaintenanceService) CompleteMaintenance(ctx context.Context, id string) (*domain.MaintenanceLog, error) {
	var entry *domain.MaintenanceLog
	var vehicle *domain.Vehicle

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		m, err := tx.Maintenance().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(ErrMaintenanceNotFound, "Maintenance log not found")
			}
			return err
		}

		v, err := tx.Vehicles().GetByIDForUpdate(ctx, m.VehicleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(ErrVehicleNotFound, "Vehicle not found")
			}
			return err
		}
		if m.Completed() || v.Status != domain.VehicleStatusInShop {
			return reject(ErrInvalidTransition, "Vehicle is not currently in maintenance")
		}

		now := s.now().UTC()
		m.CompletedAt = now
		if err := tx.Maintenance().Update(ctx, m); err != nil {
			return err
		}

		v.Status = domain.VehicleStatusAvailable
		v.UpdatedAt = now
		if err := tx.Vehicles().Update(ctx, v); err != nil {
			return err
		}

		entry, vehicle = m, v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyMaintenanceClosed(ctx, entry)
	s.notifier.NotifyVehicleStatusChanged(ctx, vehicle, domain.VehicleStatusInShop)
	return entry, nil
}
