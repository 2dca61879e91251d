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

// DriverService handles driver profile operations.
type DriverService struct {
	statsInvalidator
	store    repository.Store
	notifier *NotificationService
	now      func() time.Time
}

// NewDriverService creates a new DriverService.
func NewDriverService(store repository.Store, cache redis.StatsCacheInterface, notifier *NotificationService) *DriverService {
	return &DriverService{
		statsInvalidator: statsInvalidator{cache: cache},
		store:            store,
		notifier:         notifier,
		now:              time.Now,
	}
}

// CreateDriverRequest contains the parameters for registering a driver.
type CreateDriverRequest struct {
	Name              string
	LicenseNumber     string
	LicenseCategory   string
	LicenseExpiryDate time.Time
	Status            domain.DriverStatus // optional, defaults to On Duty
}

// ListDrivers returns a page of drivers.
func (s *DriverService) ListDrivers(ctx context.Context, page repository.Page) ([]*domain.Driver, error) {
	return s.store.Drivers().List(ctx, page)
}

// GetDriver returns one driver.
func (s *DriverService) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	d, err := s.store.Drivers().GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(ErrDriverNotFound, "Driver not found")
	}
	return d, err
}

// CreateDriver registers a driver. A driver whose license has already
// expired is created Suspended whatever status was requested.
func (s *DriverService) CreateDriver(ctx context.Context, req CreateDriverRequest) (*domain.Driver, error) {
	name := strings.TrimSpace(req.Name)
	number := strings.TrimSpace(req.LicenseNumber)
	switch {
	case name == "":
		return nil, reject(ErrInvalidInput, "Name is required")
	case number == "":
		return nil, reject(ErrInvalidInput, "License number is required")
	case req.LicenseExpiryDate.IsZero():
		return nil, reject(ErrInvalidInput, "License expiry date is required")
	}

	status := req.Status
	if status == "" {
		status = domain.DriverStatusOnDuty
	}
	if !status.Valid() {
		return nil, reject(ErrInvalidInput, "Invalid driver status: %s", status)
	}
	if status == domain.DriverStatusOnTrip {
		return nil, reject(ErrInvalidInput, "On Trip is set by dispatch only")
	}

	if _, err := s.store.Drivers().GetByLicenseNumber(ctx, number); err == nil {
		return nil, reject(ErrAlreadyRegistered, "License number already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	driver := &domain.Driver{
		ID:                 uuid.New().String(),
		Name:               name,
		LicenseNumber:      number,
		LicenseCategory:    req.LicenseCategory,
		LicenseExpiryDate:  req.LicenseExpiryDate,
		PerformanceScore:   100,
		TripCompletionRate: 100,
		Status:             status,
	}
	if driver.LicenseExpired(s.now()) {
		driver.Status = domain.DriverStatusSuspended
	}

	if err := s.store.Drivers().Create(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, reject(ErrAlreadyRegistered, "License number already registered")
		}
		return nil, err
	}

	return driver, nil
}

// UpdateDriverStatus sets a driver's duty status. On Trip is reserved for
// dispatch, drivers on a trip cannot be moved, and an expired license
// blocks On Duty.
func (s *DriverService) UpdateDriverStatus(ctx context.Context, id string, status domain.DriverStatus) (*domain.Driver, error) {
	if !status.Valid() {
		return nil, reject(ErrInvalidInput, "Invalid driver status: %s", status)
	}
	if status == domain.DriverStatusOnTrip {
		return nil, reject(ErrInvalidInput, "On Trip is set by dispatch only")
	}

	var driver *domain.Driver
	var from domain.DriverStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		d, err := tx.Drivers().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(ErrDriverNotFound, "Driver not found")
			}
			return err
		}

		if d.Status == domain.DriverStatusOnTrip {
			return reject(ErrConflict, "Driver is on a trip; complete or cancel it first")
		}
		if status == domain.DriverStatusOnDuty && d.LicenseExpired(s.now()) {
			return reject(ErrLicenseExpired, "Cannot set On Duty; license is expired.")
		}

		from = d.Status
		d.Status = status
		if err := tx.Drivers().Update(ctx, d); err != nil {
			return err
		}
		driver = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.notifier.NotifyDriverStatusChanged(ctx, driver, from)
	return driver, nil
}

// SyncExpiredLicenses suspends every driver whose license has expired.
// Returns the number of drivers suspended.
func (s *DriverService) SyncExpiredLicenses(ctx context.Context) (int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	n, err := s.store.Drivers().SuspendExpired(ctx, today)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.invalidate(ctx)
	}
	s.notifier.NotifyLicensesSynced(ctx, n)
	return n, nil
}
