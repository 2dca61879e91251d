package service

import (
	"errors"
	"fmt"
)

var (
	// ErrVehicleNotFound is returned when a referenced vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrDriverNotFound is returned when a referenced driver does not exist.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrTripNotFound is returned when a referenced trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrMaintenanceNotFound is returned when a maintenance log does not exist.
	ErrMaintenanceNotFound = errors.New("maintenance log not found")

	// ErrUserNotFound is returned when a password reset names an unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidInput is returned when a request field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRegistered is returned when a unique identifier is already in use.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrVehicleUnavailable is returned when a vehicle cannot take a trip.
	ErrVehicleUnavailable = errors.New("vehicle not available")

	// ErrCargoExceedsCapacity is returned when cargo is heavier than the vehicle allows.
	ErrCargoExceedsCapacity = errors.New("cargo exceeds capacity")

	// ErrDriverNotOnDuty is returned when a driver cannot take a trip.
	ErrDriverNotOnDuty = errors.New("driver not on duty")

	// ErrInvalidTransition is returned when a lifecycle action is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrLicenseExpired is returned when an expired license blocks a status change.
	ErrLicenseExpired = errors.New("license expired")

	// ErrConflict is returned when concurrent state invalidated a request.
	ErrConflict = errors.New("conflicting state")

	// ErrVehicleLocked is returned when another request holds the vehicle's dispatch lock.
	ErrVehicleLocked = errors.New("vehicle locked")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDeactivated is returned when a deactivated user logs in.
	ErrAccountDeactivated = errors.New("account deactivated")

	// ErrInvalidOTP is returned when a password reset code does not match.
	ErrInvalidOTP = errors.New("invalid otp")

	// ErrOTPExpired is returned when a password reset code is too old.
	ErrOTPExpired = errors.New("otp expired")
)

// RuleError carries the human-readable detail of a rejected request.
// Kind is one of the sentinels above and drives the HTTP status.
type RuleError struct {
	Kind   error
	Detail string
}

func (e *RuleError) Error() string { return e.Detail }

func (e *RuleError) Unwrap() error { return e.Kind }

func reject(kind error, format string, args ...any) error {
	return &RuleError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// formatNumber renders a quantity without a trailing ".0" for whole values.
func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}
