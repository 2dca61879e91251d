// Package events carries fleet lifecycle events from services to the sinks
// that record or broadcast them.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type names a fleet event.
type Type string

const (
	TripCreated          Type = "trip.created"
	TripDispatched       Type = "trip.dispatched"
	TripCompleted        Type = "trip.completed"
	TripCancelled        Type = "trip.cancelled"
	VehicleStatusChanged Type = "vehicle.status_changed"
	DriverStatusChanged  Type = "driver.status_changed"
	MaintenanceOpened    Type = "maintenance.opened"
	MaintenanceClosed    Type = "maintenance.closed"
	LicensesSynced       Type = "drivers.licenses_synced"
)

// Event is a single fleet state change.
type Event struct {
	ID         string         `json:"id" bson:"_id"`
	Type       Type           `json:"type" bson:"type"`
	TripID     string         `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	VehicleID  string         `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"`
	DriverID   string         `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	Status     string         `json:"status,omitempty" bson:"status,omitempty"`
	Message    string         `json:"message" bson:"message"`
	Data       map[string]any `json:"data,omitempty" bson:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at" bson:"occurred_at"`
}

// New creates an event stamped with a fresh id and the current time.
func New(t Type, message string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to one sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Fanout publishes every event to each of its sinks.
type Fanout []Publisher

// Publish delivers event to all sinks and joins their errors.
func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
