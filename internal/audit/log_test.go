package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/events"
)

func TestLog_RecordsOnlyTripEvents(t *testing.T) {
	ctx := context.Background()
	l := NewLog(NewMemoryCollection())

	created := events.New(events.TripCreated, "created")
	created.TripID = "trip-1"
	require.NoError(t, l.Publish(ctx, created))

	unrelated := events.New(events.VehicleStatusChanged, "in shop")
	unrelated.VehicleID = "v1"
	require.NoError(t, l.Publish(ctx, unrelated))

	history, err := l.TripEvents(ctx, "trip-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, events.TripCreated, history[0].Type)
}

func TestLog_TripEventsOldestFirst(t *testing.T) {
	ctx := context.Background()
	l := NewLog(NewMemoryCollection())
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	second := events.New(events.TripDispatched, "dispatched")
	second.TripID = "trip-1"
	second.OccurredAt = base.Add(time.Minute)
	first := events.New(events.TripCreated, "created")
	first.TripID = "trip-1"
	first.OccurredAt = base

	require.NoError(t, l.Publish(ctx, second))
	require.NoError(t, l.Publish(ctx, first))

	history, err := l.TripEvents(ctx, "trip-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, events.TripCreated, history[0].Type)
	assert.Equal(t, events.TripDispatched, history[1].Type)

	empty, err := l.TripEvents(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
