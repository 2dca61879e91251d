package handler

import (
	"fleetflow/internal/api"
	"fleetflow/internal/domain"
)

func toVehicle(v *domain.Vehicle) api.Vehicle {
	return api.Vehicle{
		ID:            v.ID,
		LicensePlate:  v.LicensePlate,
		Name:          v.Name,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		Type:          string(v.Type),
		FuelType:      string(v.FuelType),
		MaxCapacity:   v.MaxCapacity,
		Odometer:      v.Odometer,
		PurchasePrice: v.PurchasePrice,
		CurrentValue:  v.CurrentValue,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func toDriver(d *domain.Driver) api.Driver {
	return api.Driver{
		ID:                 d.ID,
		Name:               d.Name,
		LicenseNumber:      d.LicenseNumber,
		LicenseCategory:    d.LicenseCategory,
		LicenseExpiryDate:  d.LicenseExpiryDate.Format(api.DateLayout),
		PerformanceScore:   d.PerformanceScore,
		TripCompletionRate: d.TripCompletionRate,
		Status:             string(d.Status),
	}
}

func toTrip(t *domain.Trip) api.Trip {
	return api.Trip{
		ID:            t.ID,
		VehicleID:     t.VehicleID,
		DriverID:      t.DriverID,
		CargoWeight:   t.CargoWeight,
		StartLocation: t.StartLocation,
		EndLocation:   t.EndLocation,
		Status:        string(t.Status),
		FinalOdometer: t.FinalOdometer,
		CreatedAt:     t.CreatedAt,
		DispatchedAt:  timePtr(t.DispatchedAt),
		CompletedAt:   timePtr(t.CompletedAt),
		CancelledAt:   timePtr(t.CancelledAt),
	}
}

func toMaintenance(m *domain.MaintenanceLog) api.MaintenanceLog {
	return api.MaintenanceLog{
		ID:          m.ID,
		VehicleID:   m.VehicleID,
		ServiceType: m.ServiceType,
		Description: m.Description,
		Cost:        m.Cost,
		Date:        m.Date.Format(api.DateLayout),
		StartedAt:   m.StartedAt,
		CompletedAt: timePtr(m.CompletedAt),
	}
}

func toExpense(e *domain.Expense) api.Expense {
	return api.Expense{
		ID:          e.ID,
		VehicleID:   e.VehicleID,
		TripID:      e.TripID,
		ExpenseType: e.ExpenseType,
		Cost:        e.Cost,
		Date:        e.Date.Format(api.DateLayout),
	}
}

func toFuelLog(f *domain.FuelLog) api.FuelLog {
	return api.FuelLog{
		ID:              f.ID,
		VehicleID:       f.VehicleID,
		FuelType:        string(f.FuelType),
		QuantityLiters:  f.QuantityLiters,
		TotalCost:       f.TotalCost,
		Date:            f.Date.Format(api.DateLayout),
		OdometerReading: f.OdometerReading,
	}
}

func toUser(u *domain.User) api.User {
	return api.User{
		ID:       u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

// mapSlice converts every element with fn. The result is never nil so
// empty lists encode as [].
func mapSlice[S any, D any](in []S, fn func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
