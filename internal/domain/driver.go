package domain

import "time"

// DriverStatus represents the duty state of a driver.
type DriverStatus string

const (
	DriverStatusOnDuty    DriverStatus = "On Duty"
	DriverStatusOnTrip    DriverStatus = "On Trip"
	DriverStatusBreak     DriverStatus = "Break"
	DriverStatusSuspended DriverStatus = "Suspended"
	DriverStatusOffDuty   DriverStatus = "Off Duty"
)

// Valid reports whether s is a known driver status.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverStatusOnDuty, DriverStatusOnTrip, DriverStatusBreak, DriverStatusSuspended, DriverStatusOffDuty:
		return true
	}
	return false
}

// Driver represents a licensed driver.
type Driver struct {
	ID                 string
	Name               string
	LicenseNumber      string
	LicenseCategory    string
	LicenseExpiryDate  time.Time
	PerformanceScore   float64
	TripCompletionRate float64
	Status             DriverStatus
}

// LicenseExpired reports whether the license expired before the given day.
func (d *Driver) LicenseExpired(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.LicenseExpiryDate.Before(today)
}

// CanAcceptTrip reports whether the driver can be assigned to a trip.
func (d *Driver) CanAcceptTrip() bool {
	return d.Status == DriverStatusOnDuty
}
