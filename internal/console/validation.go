// Package console implements the operator workflows on top of the
// fleetflow API client: the trip board, entry forms and list pages.
package console

import (
	"fmt"
	"strconv"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
)

// Reason classifies a local validation failure.
type Reason string

const (
	ReasonMissingField       Reason = "missing_field"
	ReasonInvalidNumber      Reason = "invalid_number"
	ReasonInvalidDate        Reason = "invalid_date"
	ReasonPasswordMismatch   Reason = "password_mismatch"
	ReasonPasswordTooShort   Reason = "password_too_short"
	ReasonMissingVehicle     Reason = "missing_vehicle"
	ReasonMissingDriver      Reason = "missing_driver"
	ReasonInvalidCargo       Reason = "invalid_cargo"
	ReasonVehicleUnavailable Reason = "vehicle_unavailable"
	ReasonDriverNotOnDuty    Reason = "driver_not_on_duty"
	ReasonCargoExceeds       Reason = "cargo_exceeds_capacity"
	ReasonMissingOdometer    Reason = "missing_odometer"
	ReasonInvalidOdometer    Reason = "invalid_odometer"
)

// ValidationError rejects input before any request is made.
type ValidationError struct {
	Field   string
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field string, reason Reason, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Validation is the outcome of checking a trip draft locally.
type Validation struct {
	OK      bool
	Reason  Reason
	Message string
}

// Err returns the failure as a *ValidationError, or nil when OK.
func (v Validation) Err() error {
	if v.OK {
		return nil
	}
	return &ValidationError{Reason: v.Reason, Message: v.Message}
}

func formatTons(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValidateTrip checks a trip draft against the selected vehicle and
// driver. A nil vehicle or driver means nothing was selected.
func ValidateTrip(vehicle *api.Vehicle, driver *api.Driver, cargo float64) Validation {
	fail := func(r Reason, format string, args ...any) Validation {
		return Validation{Reason: r, Message: fmt.Sprintf(format, args...)}
	}

	switch {
	case vehicle == nil:
		return fail(ReasonMissingVehicle, "Please select a vehicle.")
	case driver == nil:
		return fail(ReasonMissingDriver, "Please select a driver.")
	case cargo <= 0:
		return fail(ReasonInvalidCargo, "Cargo weight must be greater than zero.")
	case domain.VehicleStatus(vehicle.Status) != domain.VehicleStatusAvailable:
		return fail(ReasonVehicleUnavailable, "Vehicle %s is %s and cannot take a trip.", vehicle.LicensePlate, vehicle.Status)
	case domain.DriverStatus(driver.Status) != domain.DriverStatusOnDuty:
		return fail(ReasonDriverNotOnDuty, "Driver %s is %s, not On Duty.", driver.Name, driver.Status)
	case cargo > vehicle.MaxCapacity:
		return fail(ReasonCargoExceeds, "Cargo weight (%s tons) exceeds vehicle max capacity (%s tons).",
			formatTons(cargo), formatTons(vehicle.MaxCapacity))
	}
	return Validation{OK: true}
}
