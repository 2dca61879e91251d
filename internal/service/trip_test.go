package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/domain"
	"fleetflow/internal/events"
)

// ──────────────────────────────────────────────
// TRIP CREATION
// ──────────────────────────────────────────────

func TestCreateTrip_Draft(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 5)
	d := f.addDriver(t, "LIC-1")

	trip := f.draftTrip(t, v.ID, d.ID, 4.5)

	assert.Equal(t, domain.TripStatusDraft, trip.Status)
	assert.Equal(t, "Depot", trip.StartLocation)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t, v.ID).Status)
	assert.Equal(t, domain.DriverStatusOnDuty, f.driver(t, d.ID).Status)
	assert.Contains(t, f.published.Types(), events.TripCreated)
}

func TestCreateTrip_CargoExceedsCapacity(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "VAN-1", domain.VehicleTypeVan, 5)
	d := f.addDriver(t, "LIC-1")

	_, err := f.trips.CreateTrip(context.Background(), CreateTripRequest{VehicleID: v.ID, DriverID: d.ID, CargoWeight: 6})

	require.ErrorIs(t, err, ErrCargoExceedsCapacity)
	assert.Contains(t, err.Error(), "exceeds")
	assert.Equal(t, "Cargo weight (6) exceeds vehicle capacity (5)", err.Error())

	trips, _ := f.trips.ListTrips(context.Background(), pageAll)
	assert.Empty(t, trips)
}

func TestCreateTrip_CargoEqualToCapacityAllowed(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "VAN-1", domain.VehicleTypeVan, 5)
	d := f.addDriver(t, "LIC-1")

	trip := f.draftTrip(t, v.ID, d.ID, 5)
	assert.Equal(t, domain.TripStatusDraft, trip.Status)
}

func TestCreateTrip_Rejections(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "VAN-1", domain.VehicleTypeVan, 5)
	d := f.addDriver(t, "LIC-1")

	tests := []struct {
		name   string
		req    CreateTripRequest
		kind   error
		detail string
	}{
		{"missing vehicle", CreateTripRequest{DriverID: d.ID, CargoWeight: 1}, ErrInvalidInput, "Vehicle is required"},
		{"zero cargo", CreateTripRequest{VehicleID: v.ID, DriverID: d.ID}, ErrInvalidInput, "Cargo weight must be greater than 0"},
		{"unknown vehicle", CreateTripRequest{VehicleID: "nope", DriverID: d.ID, CargoWeight: 1}, ErrVehicleNotFound, "Vehicle not found"},
		{"unknown driver", CreateTripRequest{VehicleID: v.ID, DriverID: "nope", CargoWeight: 1}, ErrDriverNotFound, "Driver not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.trips.CreateTrip(ctx, tt.req)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.detail, err.Error())
		})
	}
}

func TestCreateTrip_VehicleNotAvailable(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "VAN-1", domain.VehicleTypeVan, 5)
	d := f.addDriver(t, "LIC-1")
	_, err := f.registry.ToggleOutOfService(ctx, v.ID)
	require.NoError(t, err)

	_, err = f.trips.CreateTrip(ctx, CreateTripRequest{VehicleID: v.ID, DriverID: d.ID, CargoWeight: 1})

	require.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.Equal(t, "Vehicle is not available. Status: Out of Service", err.Error())
}

func TestCreateTrip_DriverNotOnDuty(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "VAN-1", domain.VehicleTypeVan, 5)
	d := f.addDriver(t, "LIC-1")
	_, err := f.drivers.UpdateDriverStatus(ctx, d.ID, domain.DriverStatusBreak)
	require.NoError(t, err)

	_, err = f.trips.CreateTrip(ctx, CreateTripRequest{VehicleID: v.ID, DriverID: d.ID, CargoWeight: 1})

	require.ErrorIs(t, err, ErrDriverNotOnDuty)
	assert.Equal(t, "Driver is not on duty. Status: Break", err.Error())
}

// ──────────────────────────────────────────────
// DISPATCH
// ──────────────────────────────────────────────

func TestDispatchTrip_MovesVehicleAndDriverOnTrip(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)

	dispatched, err := f.trips.DispatchTrip(ctx, trip.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusDispatched, dispatched.Status)
	assert.Equal(t, testNow, dispatched.DispatchedAt)
	assert.Equal(t, domain.VehicleStatusOnTrip, f.vehicle(t, v.ID).Status)
	assert.Equal(t, domain.DriverStatusOnTrip, f.driver(t, d.ID).Status)
	assert.EqualValues(t, 1, f.locks.AcquireCallCount)
	assert.EqualValues(t, 1, f.locks.ReleaseCallCount)
}

func TestDispatchTrip_OnlyDraft(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)
	_, err := f.trips.DispatchTrip(ctx, trip.ID)
	require.NoError(t, err)

	_, err = f.trips.DispatchTrip(ctx, trip.ID)

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Only Draft trips can be dispatched", err.Error())
}

func TestDispatchTrip_VehicleTakenOutOfServiceAfterDraft(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)

	_, err := f.registry.ToggleOutOfService(ctx, v.ID)
	require.NoError(t, err)

	_, err = f.trips.DispatchTrip(ctx, trip.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Vehicle is no longer available", err.Error())

	stored, err := f.trips.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusDraft, stored.Status)
	assert.Equal(t, domain.DriverStatusOnDuty, f.driver(t, d.ID).Status)
	assert.EqualValues(t, 1, f.locks.ReleaseCallCount)
}

func TestDispatchTrip_LockHeldElsewhere(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)
	f.locks.Hold(v.ID)

	_, err := f.trips.DispatchTrip(context.Background(), trip.ID)

	require.ErrorIs(t, err, ErrVehicleLocked)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t, v.ID).Status)
}

func TestDispatchTrip_LockStoreFailure(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)
	boom := errors.New("redis down")
	f.locks.AcquireError = boom

	_, err := f.trips.DispatchTrip(context.Background(), trip.ID)
	assert.ErrorIs(t, err, boom)
}

func TestDispatchTrip_ConcurrentDraftsForOneVehicle(t *testing.T) {
	f := newFleet(t)
	f.trips.lockStore = nil
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)

	const n = 8
	ids := make([]string, n)
	for i := range ids {
		d := f.addDriver(t, "LIC-"+string(rune('A'+i)))
		ids[i] = f.draftTrip(t, v.ID, d.ID, 1).ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.trips.DispatchTrip(ctx, id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	dispatched, err := f.store.Trips().CountByStatus(ctx, domain.TripStatusDispatched, "")
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)
}

// ──────────────────────────────────────────────
// COMPLETION AND CANCELLATION
// ──────────────────────────────────────────────

func dispatchedTrip(t *testing.T, f *fleet) (*domain.Trip, *domain.Vehicle, *domain.Driver) {
	t.Helper()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)
	trip, err := f.trips.DispatchTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	return trip, v, d
}

func TestCompleteTrip_ReleasesResources(t *testing.T) {
	f := newFleet(t)
	trip, v, d := dispatchedTrip(t, f)

	done, err := f.trips.CompleteTrip(context.Background(), CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(85000)})
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusCompleted, done.Status)
	require.NotNil(t, done.FinalOdometer)
	assert.Equal(t, 85000.0, *done.FinalOdometer)
	assert.Equal(t, testNow, done.CompletedAt)

	vehicle := f.vehicle(t, v.ID)
	assert.Equal(t, domain.VehicleStatusAvailable, vehicle.Status)
	assert.Equal(t, 85000.0, vehicle.Odometer)

	driver := f.driver(t, d.ID)
	assert.Equal(t, domain.DriverStatusOnDuty, driver.Status)
	assert.Equal(t, 100.0, driver.TripCompletionRate)
}

func TestCompleteTrip_RequiresOdometer(t *testing.T) {
	f := newFleet(t)
	trip, _, _ := dispatchedTrip(t, f)

	_, err := f.trips.CompleteTrip(context.Background(), CompleteTripRequest{TripID: trip.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, _ := f.trips.GetTrip(context.Background(), trip.ID)
	assert.Equal(t, domain.TripStatusDispatched, stored.Status)
}

func TestCompleteTrip_OdometerBelowVehicle(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	trip, v, _ := dispatchedTrip(t, f)
	_, err := f.trips.CompleteTrip(ctx, CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(1000)})
	require.NoError(t, err)

	d2 := f.addDriver(t, "LIC-2")
	next := f.draftTrip(t, v.ID, d2.ID, 1)
	_, err = f.trips.DispatchTrip(ctx, next.ID)
	require.NoError(t, err)

	_, err = f.trips.CompleteTrip(ctx, CompleteTripRequest{TripID: next.ID, FinalOdometer: ptr(999)})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "below the vehicle odometer")
}

func TestCompleteTrip_OnlyDispatched(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)

	_, err := f.trips.CompleteTrip(context.Background(), CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(10)})

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Only Dispatched trips can be completed", err.Error())
}

func TestCancelTrip_Dispatched(t *testing.T) {
	f := newFleet(t)
	trip, v, d := dispatchedTrip(t, f)

	cancelled, err := f.trips.CancelTrip(context.Background(), trip.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusCancelled, cancelled.Status)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t, v.ID).Status)
	driver := f.driver(t, d.ID)
	assert.Equal(t, domain.DriverStatusOnDuty, driver.Status)
	assert.Equal(t, 0.0, driver.TripCompletionRate)
}

func TestCancelTrip_DraftLeavesCompletionRate(t *testing.T) {
	f := newFleet(t)
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)

	_, err := f.trips.CancelTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.driver(t, d.ID).TripCompletionRate)
}

func TestCancelTrip_TerminalRejected(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	trip, _, _ := dispatchedTrip(t, f)
	_, err := f.trips.CompleteTrip(ctx, CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(50)})
	require.NoError(t, err)

	_, err = f.trips.CancelTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTripMutationsInvalidateDashboard(t *testing.T) {
	f := newFleet(t)
	before := f.cache.InvalidateCallCount
	trip, _, _ := dispatchedTrip(t, f)
	_, err := f.trips.CompleteTrip(context.Background(), CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(5)})
	require.NoError(t, err)

	assert.Greater(t, f.cache.InvalidateCallCount, before+2)
}

func TestTripEvents_WithoutHistory(t *testing.T) {
	f := newFleet(t)
	trip, _, _ := dispatchedTrip(t, f)

	history, err := f.trips.TripEvents(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = f.trips.TripEvents(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTripNotFound)
}

// ──────────────────────────────────────────────
// COMPETING TRANSITIONS
// ──────────────────────────────────────────────

func TestCompleteTrip_AfterCompetingCancel(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	trip, v, _ := dispatchedTrip(t, f)
	store := f.interleaved()
	store.Interleave(func() { f.setTripStatus(t, trip.ID, domain.TripStatusCancelled, nil) })

	_, err := f.trips.CompleteTrip(ctx, CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(900)})
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.trips.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCancelled, stored.Status)
	assert.Nil(t, stored.FinalOdometer)
	assert.Equal(t, 0.0, f.vehicle(t, v.ID).Odometer)
}

func TestCompleteTrip_CompetingCompletionWins(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	trip, _, _ := dispatchedTrip(t, f)
	store := f.interleaved()
	store.Interleave(func() { f.setTripStatus(t, trip.ID, domain.TripStatusCompleted, ptr(100)) })

	_, err := f.trips.CompleteTrip(ctx, CompleteTripRequest{TripID: trip.ID, FinalOdometer: ptr(200)})
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.trips.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCompleted, stored.Status)
	require.NotNil(t, stored.FinalOdometer)
	assert.Equal(t, 100.0, *stored.FinalOdometer)
}

func TestDispatchTrip_AfterCompetingCancel(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	trip := f.draftTrip(t, v.ID, d.ID, 3)
	store := f.interleaved()
	store.Interleave(func() { f.setTripStatus(t, trip.ID, domain.TripStatusCancelled, nil) })

	_, err := f.trips.DispatchTrip(ctx, trip.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.trips.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCancelled, stored.Status)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t, v.ID).Status)
	assert.Equal(t, domain.DriverStatusOnDuty, f.driver(t, d.ID).Status)
}

func TestCancelTrip_AfterCompetingCompletion(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	trip, _, _ := dispatchedTrip(t, f)
	store := f.interleaved()
	store.Interleave(func() { f.setTripStatus(t, trip.ID, domain.TripStatusCompleted, ptr(100)) })

	_, err := f.trips.CancelTrip(ctx, trip.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.trips.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCompleted, stored.Status)
}

func TestTripTransitions_LockVehicleBeforeTrip(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	d := f.addDriver(t, "LIC-1")
	first := f.draftTrip(t, v.ID, d.ID, 3)
	second := f.draftTrip(t, v.ID, d.ID, 3)
	store := f.interleaved()

	_, err := f.trips.DispatchTrip(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"vehicle", "trip", "driver"}, store.Locks())

	_, err = f.trips.CancelTrip(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"vehicle", "trip", "driver"}, store.Locks()[3:])

	_, err = f.trips.DispatchTrip(ctx, second.ID)
	require.NoError(t, err)
	_, err = f.trips.CompleteTrip(ctx, CompleteTripRequest{TripID: second.ID, FinalOdometer: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"vehicle", "trip", "driver"}, store.Locks()[9:])
}

func TestDispatchTrip_DriverRemovedAfterDraft(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	v := f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10)
	trip := f.draftTrip(t, v.ID, f.addDriver(t, "LIC-1").ID, 3)

	stored, err := f.store.Trips().GetByID(ctx, trip.ID)
	require.NoError(t, err)
	stored.DriverID = "gone"
	require.NoError(t, f.store.Trips().Update(ctx, stored))

	_, err = f.trips.DispatchTrip(ctx, trip.ID)
	require.ErrorIs(t, err, ErrDriverNotFound)
	assert.Equal(t, "Driver not found", err.Error())
}

func TestCancelTrip_VehicleRemovedAfterDraft(t *testing.T) {
	f := newFleet(t)
	ctx := context.Background()
	trip := f.draftTrip(t, f.addVehicle(t, "TRK-1", domain.VehicleTypeTruck, 10).ID, f.addDriver(t, "LIC-1").ID, 3)

	stored, err := f.store.Trips().GetByID(ctx, trip.ID)
	require.NoError(t, err)
	stored.VehicleID = "gone"
	require.NoError(t, f.store.Trips().Update(ctx, stored))

	_, err = f.trips.CancelTrip(ctx, trip.ID)
	require.ErrorIs(t, err, ErrVehicleNotFound)
	assert.Equal(t, "Vehicle not found", err.Error())
}
