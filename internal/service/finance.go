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

// FinanceService handles expense and fuel ledgers.
type FinanceService struct {
	statsInvalidator
	store repository.Store
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(store repository.Store, cache redis.StatsCacheInterface) *FinanceService {
	return &FinanceService{
		statsInvalidator: statsInvalidator{cache: cache},
		store:            store,
	}
}

// CreateExpenseRequest contains the parameters for logging an expense.
type CreateExpenseRequest struct {
	VehicleID   string
	TripID      string // optional
	ExpenseType string
	Cost        float64
	Date        time.Time
}

// CreateFuelLogRequest contains the parameters for logging a refuelling.
type CreateFuelLogRequest struct {
	VehicleID       string
	FuelType        domain.FuelType // optional
	QuantityLiters  float64
	TotalCost       float64
	Date            time.Time
	OdometerReading *float64
}

func (s *FinanceService) requireVehicle(ctx context.Context, id string) error {
	if id == "" {
		return reject(ErrInvalidInput, "Vehicle is required")
	}
	_, err := s.store.Vehicles().GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return reject(ErrVehicleNotFound, "Vehicle not found")
	}
	return err
}

// ListExpenses returns a page of expenses.
func (s *FinanceService) ListExpenses(ctx context.Context, page repository.Page) ([]*domain.Expense, error) {
	return s.store.Expenses().List(ctx, page)
}

// CreateExpense logs an expense against a vehicle and, optionally, a trip.
func (s *FinanceService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*domain.Expense, error) {
	switch {
	case strings.TrimSpace(req.ExpenseType) == "":
		return nil, reject(ErrInvalidInput, "Expense type is required")
	case req.Cost < 0:
		return nil, reject(ErrInvalidInput, "Cost cannot be negative")
	case req.Date.IsZero():
		return nil, reject(ErrInvalidInput, "Date is required")
	}
	if err := s.requireVehicle(ctx, req.VehicleID); err != nil {
		return nil, err
	}
	if req.TripID != "" {
		if _, err := getTrip(ctx, s.store, req.TripID); err != nil {
			return nil, err
		}
	}

	expense := &domain.Expense{
		ID:          uuid.New().String(),
		VehicleID:   req.VehicleID,
		TripID:      req.TripID,
		ExpenseType: strings.TrimSpace(req.ExpenseType),
		Cost:        req.Cost,
		Date:        req.Date,
	}
	if err := s.store.Expenses().Create(ctx, expense); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return expense, nil
}

// ListFuelLogs returns a page of fuel logs.
func (s *FinanceService) ListFuelLogs(ctx context.Context, page repository.Page) ([]*domain.FuelLog, error) {
	return s.store.FuelLogs().List(ctx, page)
}

// CreateFuelLog logs a refuelling against a vehicle.
func (s *FinanceService) CreateFuelLog(ctx context.Context, req CreateFuelLogRequest) (*domain.FuelLog, error) {
	switch {
	case req.QuantityLiters <= 0:
		return nil, reject(ErrInvalidInput, "Quantity must be greater than 0")
	case req.TotalCost < 0:
		return nil, reject(ErrInvalidInput, "Total cost cannot be negative")
	case req.Date.IsZero():
		return nil, reject(ErrInvalidInput, "Date is required")
	case req.FuelType != "" && !req.FuelType.Valid():
		return nil, reject(ErrInvalidInput, "Fuel type must be one of Petrol, Diesel, Electric")
	}
	if err := s.requireVehicle(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	fuel := &domain.FuelLog{
		ID:              uuid.New().String(),
		VehicleID:       req.VehicleID,
		FuelType:        req.FuelType,
		QuantityLiters:  req.QuantityLiters,
		TotalCost:       req.TotalCost,
		Date:            req.Date,
		OdometerReading: req.OdometerReading,
	}
	if err := s.store.FuelLogs().Create(ctx, fuel); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return fuel, nil
}
