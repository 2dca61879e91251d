package console

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
)

var (
	// ErrBusy is returned when another mutation on the board is in flight.
	ErrBusy = errors.New("another action is in progress")

	// ErrTransitionNotOffered is returned when the trip's status does not
	// offer the requested action.
	ErrTransitionNotOffered = errors.New("action not offered for the trip's status")

	// ErrTripNotLoaded is returned for a trip id the board has not fetched.
	ErrTripNotLoaded = errors.New("trip not loaded")

	// ErrRefreshFailed wraps a failed re-sync after a mutation that the
	// server already applied.
	ErrRefreshFailed = errors.New("refresh failed")
)

// TripAPI is the part of the API client the board drives.
type TripAPI interface {
	ListTrips(ctx context.Context) ([]api.Trip, error)
	ListVehicles(ctx context.Context) ([]api.Vehicle, error)
	ListDrivers(ctx context.Context) ([]api.Driver, error)
	CreateTrip(ctx context.Context, req api.CreateTripRequest) (api.Trip, error)
	DispatchTrip(ctx context.Context, id string) (api.Trip, error)
	CompleteTrip(ctx context.Context, id string, finalOdometer float64) (api.Trip, error)
	CancelTrip(ctx context.Context, id string) (api.Trip, error)
}

// SyncMode decides how the board catches up after a mutation.
type SyncMode int

const (
	// SyncRefetch reloads trips, vehicles and drivers after every mutation.
	SyncRefetch SyncMode = iota
	// SyncMerge folds the trip returned by the mutation into local state.
	SyncMerge
)

// Row is one line of the trip table.
type Row struct {
	Trip    api.Trip
	Vehicle string
	Driver  string
}

// Board is the trip dispatch workspace.
type Board struct {
	api  TripAPI
	mode SyncMode

	mu       sync.RWMutex
	trips    []api.Trip
	vehicles map[string]api.Vehicle
	drivers  map[string]api.Driver

	busy atomic.Bool
}

// NewBoard creates an empty board. Call Refresh to load it.
func NewBoard(c TripAPI, mode SyncMode) *Board {
	return &Board{
		api:      c,
		mode:     mode,
		vehicles: map[string]api.Vehicle{},
		drivers:  map[string]api.Driver{},
	}
}

// Refresh fetches trips, vehicles and drivers concurrently. On any
// failure the board keeps its previous state.
func (b *Board) Refresh(ctx context.Context) error {
	var (
		trips    []api.Trip
		vehicles []api.Vehicle
		drivers  []api.Driver
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		trips, err = b.api.ListTrips(gctx)
		return err
	})
	g.Go(func() (err error) {
		vehicles, err = b.api.ListVehicles(gctx)
		return err
	})
	g.Go(func() (err error) {
		drivers, err = b.api.ListDrivers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	vehicleByID := make(map[string]api.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehicleByID[v.ID] = v
	}
	driverByID := make(map[string]api.Driver, len(drivers))
	for _, d := range drivers {
		driverByID[d.ID] = d
	}

	b.mu.Lock()
	b.trips = trips
	b.vehicles = vehicleByID
	b.drivers = driverByID
	b.mu.Unlock()
	return nil
}

// Trips returns a copy of the loaded trips.
func (b *Board) Trips() []api.Trip {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]api.Trip(nil), b.trips...)
}

// Trip returns one loaded trip.
func (b *Board) Trip(id string) (api.Trip, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.trips {
		if t.ID == id {
			return t, true
		}
	}
	return api.Trip{}, false
}

// Vehicle returns one loaded vehicle.
func (b *Board) Vehicle(id string) (api.Vehicle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.vehicles[id]
	return v, ok
}

// Rows joins each trip with its vehicle plate and driver name, falling
// back to the raw ids for unknown references.
func (b *Board) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows := make([]Row, 0, len(b.trips))
	for _, t := range b.trips {
		row := Row{Trip: t, Vehicle: t.VehicleID, Driver: t.DriverID}
		if v, ok := b.vehicles[t.VehicleID]; ok {
			row.Vehicle = v.LicensePlate
		}
		if d, ok := b.drivers[t.DriverID]; ok {
			row.Driver = d.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// AvailableVehicles lists the vehicles a new trip can be assigned to.
func (b *Board) AvailableVehicles() []api.Vehicle {
	b.mu.RLock()
	var out []api.Vehicle
	for _, v := range b.vehicles {
		if domain.VehicleStatus(v.Status) == domain.VehicleStatusAvailable {
			out = append(out, v)
		}
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].LicensePlate < out[j].LicensePlate })
	return out
}

// OnDutyDrivers lists the drivers a new trip can be assigned to.
func (b *Board) OnDutyDrivers() []api.Driver {
	b.mu.RLock()
	var out []api.Driver
	for _, d := range b.drivers {
		if domain.DriverStatus(d.Status) == domain.DriverStatusOnDuty {
			out = append(out, d)
		}
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Actions lists what the trip's status offers.
func Actions(t api.Trip) []domain.TripAction {
	var out []domain.TripAction
	for _, a := range []domain.TripAction{domain.TripActionDispatch, domain.TripActionComplete, domain.TripActionCancel} {
		if _, ok := domain.TripStatus(t.Status).Next(a); ok {
			out = append(out, a)
		}
	}
	return out
}

func (b *Board) acquire() error {
	if !b.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (b *Board) release() {
	b.busy.Store(false)
}

// CreateTrip validates the form against the loaded vehicle and driver
// and drafts the trip. On success it returns an empty form; on failure
// the form is returned unchanged. Validation failures issue no request.
func (b *Board) CreateTrip(ctx context.Context, form TripForm) (TripForm, error) {
	if err := b.acquire(); err != nil {
		return form, err
	}
	defer b.release()

	req, err := form.Payload()
	if err != nil {
		return form, err
	}

	b.mu.RLock()
	var (
		vehicle *api.Vehicle
		driver  *api.Driver
	)
	if v, ok := b.vehicles[req.VehicleID]; ok {
		vehicle = &v
	}
	if d, ok := b.drivers[req.DriverID]; ok {
		driver = &d
	}
	b.mu.RUnlock()

	if err := ValidateTrip(vehicle, driver, req.CargoWeight).Err(); err != nil {
		return form, err
	}

	trip, err := b.api.CreateTrip(ctx, req)
	if err != nil {
		return form, err
	}
	return TripForm{}, b.sync(ctx, trip)
}

// Dispatch sends a Draft trip out.
func (b *Board) Dispatch(ctx context.Context, id string) error {
	return b.transition(ctx, id, domain.TripActionDispatch, func() (api.Trip, error) {
		return b.api.DispatchTrip(ctx, id)
	})
}

// Complete closes a Dispatched trip at the given odometer reading. An
// empty or non-numeric reading issues no request.
func (b *Board) Complete(ctx context.Context, id, finalOdometer string) error {
	return b.transition(ctx, id, domain.TripActionComplete, func() (api.Trip, error) {
		odometer, err := parseOdometer(finalOdometer)
		if err != nil {
			return api.Trip{}, err
		}
		return b.api.CompleteTrip(ctx, id, odometer)
	})
}

// Cancel cancels a Draft or Dispatched trip.
func (b *Board) Cancel(ctx context.Context, id string) error {
	return b.transition(ctx, id, domain.TripActionCancel, func() (api.Trip, error) {
		return b.api.CancelTrip(ctx, id)
	})
}

func parseOdometer(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("final_odometer", ReasonMissingOdometer, "Final odometer reading is required.")
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, invalid("final_odometer", ReasonInvalidOdometer, "Final odometer reading must be a number.")
	}
	return n, nil
}

func (b *Board) transition(ctx context.Context, id string, action domain.TripAction, call func() (api.Trip, error)) error {
	if err := b.acquire(); err != nil {
		return err
	}
	defer b.release()

	trip, ok := b.Trip(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTripNotLoaded, id)
	}
	if _, ok := domain.TripStatus(trip.Status).Next(action); !ok {
		return fmt.Errorf("%w: cannot %s a %s trip", ErrTransitionNotOffered, action, trip.Status)
	}

	updated, err := call()
	if err != nil {
		return err
	}
	return b.sync(ctx, updated)
}

func (b *Board) sync(ctx context.Context, trip api.Trip) error {
	if b.mode == SyncMerge {
		b.merge(trip)
		return nil
	}
	if err := b.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

func (b *Board) merge(trip api.Trip) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.trips {
		if b.trips[i].ID == trip.ID {
			b.trips[i] = trip
			return
		}
	}
	b.trips = append(b.trips, trip)
}
