package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fleetflow/internal/domain"
	"fleetflow/internal/events"
)

// NotificationService turns fleet state changes into events and hands
// them to the configured publisher.
type NotificationService struct {
	publisher events.Publisher
}

// NewNotificationService creates a new NotificationService.
// A nil publisher only logs.
func NewNotificationService(publisher events.Publisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

func tripEvent(t events.Type, trip *domain.Trip, message string) events.Event {
	e := events.New(t, message)
	e.TripID = trip.ID
	e.VehicleID = trip.VehicleID
	e.DriverID = trip.DriverID
	e.Status = string(trip.Status)
	return e
}

// NotifyTripCreated announces a new draft trip.
func (s *NotificationService) NotifyTripCreated(ctx context.Context, trip *domain.Trip) {
	e := tripEvent(events.TripCreated, trip, fmt.Sprintf("Trip drafted with %s tons of cargo", formatNumber(trip.CargoWeight)))
	e.Data = map[string]any{
		"cargo_weight":   trip.CargoWeight,
		"start_location": trip.StartLocation,
		"end_location":   trip.EndLocation,
	}
	s.send(ctx, e)
}

// NotifyTripDispatched announces that a trip is on the road.
func (s *NotificationService) NotifyTripDispatched(ctx context.Context, trip *domain.Trip) {
	s.send(ctx, tripEvent(events.TripDispatched, trip, "Trip dispatched"))
}

// NotifyTripCompleted announces a finished trip.
func (s *NotificationService) NotifyTripCompleted(ctx context.Context, trip *domain.Trip) {
	e := tripEvent(events.TripCompleted, trip, "Trip completed")
	if trip.FinalOdometer != nil {
		e.Data = map[string]any{"final_odometer": *trip.FinalOdometer}
	}
	s.send(ctx, e)
}

// NotifyTripCancelled announces a cancelled trip.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip) {
	s.send(ctx, tripEvent(events.TripCancelled, trip, "Trip cancelled"))
}

// NotifyVehicleStatusChanged announces a vehicle status change.
func (s *NotificationService) NotifyVehicleStatusChanged(ctx context.Context, vehicle *domain.Vehicle, from domain.VehicleStatus) {
	e := events.New(events.VehicleStatusChanged, fmt.Sprintf("Vehicle %s: %s -> %s", vehicle.LicensePlate, from, vehicle.Status))
	e.VehicleID = vehicle.ID
	e.Status = string(vehicle.Status)
	s.send(ctx, e)
}

// NotifyDriverStatusChanged announces a driver status change.
func (s *NotificationService) NotifyDriverStatusChanged(ctx context.Context, driver *domain.Driver, from domain.DriverStatus) {
	e := events.New(events.DriverStatusChanged, fmt.Sprintf("Driver %s: %s -> %s", driver.Name, from, driver.Status))
	e.DriverID = driver.ID
	e.Status = string(driver.Status)
	s.send(ctx, e)
}

// NotifyMaintenanceOpened announces a vehicle entering the shop.
func (s *NotificationService) NotifyMaintenanceOpened(ctx context.Context, m *domain.MaintenanceLog) {
	e := events.New(events.MaintenanceOpened, fmt.Sprintf("%s started", m.ServiceType))
	e.VehicleID = m.VehicleID
	e.Status = string(domain.VehicleStatusInShop)
	e.Data = map[string]any{"maintenance_id": m.ID, "cost": m.Cost}
	s.send(ctx, e)
}

// NotifyMaintenanceClosed announces a vehicle leaving the shop.
func (s *NotificationService) NotifyMaintenanceClosed(ctx context.Context, m *domain.MaintenanceLog) {
	e := events.New(events.MaintenanceClosed, fmt.Sprintf("%s completed", m.ServiceType))
	e.VehicleID = m.VehicleID
	e.Status = string(domain.VehicleStatusAvailable)
	e.Data = map[string]any{"maintenance_id": m.ID}
	s.send(ctx, e)
}

// NotifyLicensesSynced announces the result of a license sweep.
func (s *NotificationService) NotifyLicensesSynced(ctx context.Context, suspended int) {
	e := events.New(events.LicensesSynced, fmt.Sprintf("Suspended %d driver(s) with expired licenses", suspended))
	e.Data = map[string]any{"suspended_count": suspended}
	s.send(ctx, e)
}

// send logs an event and publishes it. Delivery failures are logged and
// never reach the caller.
func (s *NotificationService) send(ctx context.Context, event events.Event) {
	entry := log.WithFields(log.Fields{
		"event":      event.Type,
		"trip_id":    event.TripID,
		"vehicle_id": event.VehicleID,
		"driver_id":  event.DriverID,
	})
	entry.Info(event.Message)

	if s == nil || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		entry.WithError(err).Warn("event delivery failed")
	}
}
