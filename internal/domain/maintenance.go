package domain

import "time"

// MaintenanceLog records a service visit that takes a vehicle off the road.
type MaintenanceLog struct {
	ID          string
	VehicleID   string
	ServiceType string
	Description string
	Cost        float64
	Date        time.Time
	StartedAt   time.Time
	CompletedAt time.Time // zero until serviced
}

// Completed reports whether the service has been finished.
func (m *MaintenanceLog) Completed() bool {
	return !m.CompletedAt.IsZero()
}
