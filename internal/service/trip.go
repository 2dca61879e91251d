package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fleetflow/internal/domain"
	"fleetflow/internal/events"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
)

// DefaultDispatchLockTTL bounds how long a crashed dispatch can block a vehicle.
const DefaultDispatchLockTTL = 30 * time.Second

// TripHistory returns the recorded lifecycle events of a trip.
type TripHistory interface {
	TripEvents(ctx context.Context, tripID string) ([]events.Event, error)
}

// TripService handles the trip lifecycle.
type TripService struct {
	statsInvalidator
	store     repository.Store
	lockStore redis.LockStoreInterface
	lockTTL   time.Duration
	history   TripHistory
	notifier  *NotificationService
	now       func() time.Time
}

// NewTripService creates a new TripService. lockStore and history
// may be nil.
func NewTripService(
	store repository.Store,
	lockStore redis.LockStoreInterface,
	cache redis.StatsCacheInterface,
	history TripHistory,
	notifier *NotificationService,
) *TripService {
	return &TripService{
		statsInvalidator: statsInvalidator{cache: cache},
		store:            store,
		lockStore:        lockStore,
		lockTTL:          DefaultDispatchLockTTL,
		history:          history,
		notifier:         notifier,
		now:              time.Now,
	}
}

// CreateTripRequest contains the parameters for drafting a trip.
type CreateTripRequest struct {
	VehicleID     string
	DriverID      string
	CargoWeight   float64
	StartLocation string
	EndLocation   string
}

// ListTrips returns a page of trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, page repository.Page) ([]*domain.Trip, error) {
	return s.store.Trips().List(ctx, page)
}

// GetTrip returns one trip.
func (s *TripService) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	return getTrip(ctx, s.store, id)
}

func getTrip(ctx context.Context, store repository.Store, id string) (*domain.Trip, error) {
	trip, err := store.Trips().GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(ErrTripNotFound, "Trip not found")
	}
	return trip, err
}

// CreateTrip drafts a trip after checking the vehicle is available and
// can carry the cargo, and the driver is on duty.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.VehicleID == "" {
		return nil, reject(ErrInvalidInput, "Vehicle is required")
	}
	if req.DriverID == "" {
		return nil, reject(ErrInvalidInput, "Driver is required")
	}
	if req.CargoWeight <= 0 || math.IsNaN(req.CargoWeight) || math.IsInf(req.CargoWeight, 0) {
		return nil, reject(ErrInvalidInput, "Cargo weight must be greater than 0")
	}

	vehicle, err := s.store.Vehicles().GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, reject(ErrVehicleNotFound, "Vehicle not found")
		}
		return nil, err
	}
	if !vehicle.IsAvailable() {
		return nil, reject(ErrVehicleUnavailable, "Vehicle is not available. Status: %s", vehicle.Status)
	}
	if !vehicle.CanCarry(req.CargoWeight) {
		return nil, reject(ErrCargoExceedsCapacity, "Cargo weight (%s) exceeds vehicle capacity (%s)",
			formatNumber(req.CargoWeight), formatNumber(vehicle.MaxCapacity))
	}

	driver, err := s.store.Drivers().GetByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, reject(ErrDriverNotFound, "Driver not found")
		}
		return nil, err
	}
	if !driver.CanAcceptTrip() {
		return nil, reject(ErrDriverNotOnDuty, "Driver is not on duty. Status: %s", driver.Status)
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		VehicleID:     vehicle.ID,
		DriverID:      driver.ID,
		CargoWeight:   req.CargoWeight,
		StartLocation: strings.TrimSpace(req.StartLocation),
		EndLocation:   strings.TrimSpace(req.EndLocation),
		Status:        domain.TripStatusDraft,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.Trips().Create(ctx, trip); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyTripCreated(ctx, trip)
	return trip, nil
}

// DispatchTrip moves a Draft trip to Dispatched and puts its vehicle and
// driver On Trip. The vehicle and trip rows are locked for the whole
// transaction and, when Redis is configured, a per-vehicle lock keeps
// concurrent dispatches from racing across instances.
func (s *TripService) DispatchTrip(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := getTrip(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !trip.Can(domain.TripActionDispatch) {
		return nil, reject(ErrInvalidTransition, "Only Draft trips can be dispatched")
	}

	if s.lockStore != nil {
		token, ok, err := s.lockStore.AcquireVehicleLock(ctx, trip.VehicleID, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, reject(ErrVehicleLocked, "Vehicle is being dispatched by another request")
		}
		defer func() {
			if err := s.lockStore.ReleaseVehicleLock(context.WithoutCancel(ctx), trip.VehicleID, token); err != nil {
				log.WithError(err).WithField("vehicle_id", trip.VehicleID).Warn("release vehicle lock failed")
			}
		}()
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		vehicle, current, err := lockTrip(ctx, tx, trip, domain.TripActionDispatch, "Only Draft trips can be dispatched")
		if err != nil {
			return err
		}
		driver, err := tx.Drivers().GetByIDForUpdate(ctx, current.DriverID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(ErrDriverNotFound, "Driver not found")
			}
			return err
		}

		if !vehicle.IsAvailable() {
			return reject(ErrConflict, "Vehicle is no longer available")
		}
		if !driver.CanAcceptTrip() {
			return reject(ErrConflict, "Driver is no longer on duty")
		}

		now := s.now().UTC()
		current.Status, _ = current.Status.Next(domain.TripActionDispatch)
		current.DispatchedAt = now
		if err := tx.Trips().Update(ctx, current); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return reject(ErrConflict, "Vehicle is no longer available")
			}
			return err
		}

		vehicle.Status = domain.VehicleStatusOnTrip
		vehicle.UpdatedAt = now
		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return err
		}

		driver.Status = domain.DriverStatusOnTrip
		if err := tx.Drivers().Update(ctx, driver); err != nil {
			return err
		}

		trip = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyTripDispatched(ctx, trip)
	return trip, nil
}

// CompleteTripRequest contains the parameters for completing a trip.
type CompleteTripRequest struct {
	TripID        string
	FinalOdometer *float64
}

// CompleteTrip closes a Dispatched trip, records the final odometer on the
// trip and the vehicle, releases both resources and refreshes the
// driver's completion rate.
func (s *TripService) CompleteTrip(ctx context.Context, req CompleteTripRequest) (*domain.Trip, error) {
	if req.FinalOdometer == nil || math.IsNaN(*req.FinalOdometer) || math.IsInf(*req.FinalOdometer, 0) {
		return nil, reject(ErrInvalidInput, "Final odometer is required")
	}
	odometer := *req.FinalOdometer

	trip, err := getTrip(ctx, s.store, req.TripID)
	if err != nil {
		return nil, err
	}
	if !trip.Can(domain.TripActionComplete) {
		return nil, reject(ErrInvalidTransition, "Only Dispatched trips can be completed")
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		vehicle, t, err := lockTrip(ctx, tx, trip, domain.TripActionComplete, "Only Dispatched trips can be completed")
		if err != nil {
			return err
		}
		if odometer < vehicle.Odometer {
			return reject(ErrInvalidInput, "Final odometer (%s) is below the vehicle odometer (%s)",
				formatNumber(odometer), formatNumber(vehicle.Odometer))
		}

		now := s.now().UTC()
		t.Status, _ = t.Status.Next(domain.TripActionComplete)
		t.FinalOdometer = &odometer
		t.CompletedAt = now
		if err := tx.Trips().Update(ctx, t); err != nil {
			return err
		}

		vehicle.Status = domain.VehicleStatusAvailable
		vehicle.Odometer = odometer
		vehicle.UpdatedAt = now
		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return err
		}

		if err := s.releaseDriver(ctx, tx, t.DriverID); err != nil {
			return err
		}

		trip = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyTripCompleted(ctx, trip)
	return trip, nil
}

// CancelTrip cancels a Draft or Dispatched trip. Cancelling a dispatched
// trip returns its vehicle and driver to service.
func (s *TripService) CancelTrip(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := getTrip(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !trip.Can(domain.TripActionCancel) {
		return nil, reject(ErrInvalidTransition, "Only Draft or Dispatched trips can be cancelled")
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		vehicle, t, err := lockTrip(ctx, tx, trip, domain.TripActionCancel, "Only Draft or Dispatched trips can be cancelled")
		if err != nil {
			return err
		}

		wasDispatched := t.Status == domain.TripStatusDispatched
		now := s.now().UTC()
		t.Status, _ = t.Status.Next(domain.TripActionCancel)
		t.CancelledAt = now
		if err := tx.Trips().Update(ctx, t); err != nil {
			return err
		}

		if wasDispatched {
			if vehicle.Status == domain.VehicleStatusOnTrip {
				vehicle.Status = domain.VehicleStatusAvailable
				vehicle.UpdatedAt = now
				if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
					return err
				}
			}
			if err := s.releaseDriver(ctx, tx, t.DriverID); err != nil {
				return err
			}
		}

		trip = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyTripCancelled(ctx, trip)
	return trip, nil
}

// lockTrip locks the vehicle row and then the trip row, the order every
// trip transition uses, and checks the action against the locked trip.
func lockTrip(
	ctx context.Context,
	tx repository.Store,
	trip *domain.Trip,
	action domain.TripAction,
	rejection string,
) (*domain.Vehicle, *domain.Trip, error) {
	vehicle, err := tx.Vehicles().GetByIDForUpdate(ctx, trip.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, reject(ErrVehicleNotFound, "Vehicle not found")
		}
		return nil, nil, err
	}

	current, err := tx.Trips().GetByIDForUpdate(ctx, trip.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, reject(ErrTripNotFound, "Trip not found")
		}
		return nil, nil, err
	}
	if !current.Can(action) {
		return nil, nil, reject(ErrInvalidTransition, rejection)
	}
	return vehicle, current, nil
}

// releaseDriver puts a driver back On Duty and recomputes the completion
// rate. Must run inside the transaction that finished the trip.
func (s *TripService) releaseDriver(ctx context.Context, tx repository.Store, driverID string) error {
	driver, err := tx.Drivers().GetByIDForUpdate(ctx, driverID)
	if err != nil {
		return err
	}

	finished, completed, err := tx.Trips().CountByDriver(ctx, driverID)
	if err != nil {
		return err
	}
	if finished > 0 {
		driver.TripCompletionRate = round2(float64(completed) / float64(finished) * 100)
	}
	if driver.Status == domain.DriverStatusOnTrip {
		driver.Status = domain.DriverStatusOnDuty
	}
	return tx.Drivers().Update(ctx, driver)
}

// TripEvents returns the audit trail of a trip.
func (s *TripService) TripEvents(ctx context.Context, id string) ([]events.Event, error) {
	if _, err := getTrip(ctx, s.store, id); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []events.Event{}, nil
	}
	return s.history.TripEvents(ctx, id)
}
