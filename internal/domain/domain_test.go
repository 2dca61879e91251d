package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTripStatusTransitions(t *testing.T) {
	tests := []struct {
		from   TripStatus
		action TripAction
		to     TripStatus
		ok     bool
	}{
		{TripStatusDraft, TripActionDispatch, TripStatusDispatched, true},
		{TripStatusDraft, TripActionCancel, TripStatusCancelled, true},
		{TripStatusDraft, TripActionComplete, "", false},
		{TripStatusDispatched, TripActionComplete, TripStatusCompleted, true},
		{TripStatusDispatched, TripActionCancel, TripStatusCancelled, true},
		{TripStatusDispatched, TripActionDispatch, "", false},
		{TripStatusCompleted, TripActionCancel, "", false},
		{TripStatusCancelled, TripActionDispatch, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			to, ok := tt.from.Next(tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.ok, (&Trip{Status: tt.from}).Can(tt.action))
		})
	}

	assert.True(t, TripStatusCompleted.Terminal())
	assert.True(t, TripStatusCancelled.Terminal())
	assert.False(t, TripStatusDraft.Terminal())
}

func TestDriverLicenseExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

	assert.False(t, (&Driver{LicenseExpiryDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)}).LicenseExpired(now))
	assert.True(t, (&Driver{LicenseExpiryDate: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)}).LicenseExpired(now))
}

func TestVehicleCanCarry(t *testing.T) {
	v := &Vehicle{MaxCapacity: 5, Status: VehicleStatusAvailable}
	assert.True(t, v.CanCarry(5))
	assert.False(t, v.CanCarry(6))
	assert.True(t, v.IsAvailable())
}
