// Package audit records trip lifecycle events so a trip's history can be
// replayed after the fact.
package audit

import (
	"context"

	"fleetflow/internal/events"
)

// Log is an events.Publisher that persists trip events.
type Log struct {
	coll EventCollection
}

// NewLog creates a Log over coll.
func NewLog(coll EventCollection) *Log {
	return &Log{coll: coll}
}

// Publish stores event if it belongs to a trip. Other events are ignored.
func (l *Log) Publish(ctx context.Context, event events.Event) error {
	if event.TripID == "" {
		return nil
	}
	return l.coll.InsertEvent(ctx, event)
}

// TripEvents returns the recorded history of a trip, oldest first.
func (l *Log) TripEvents(ctx context.Context, tripID string) ([]events.Event, error) {
	return l.coll.FindByTrip(ctx, tripID)
}

// Ensure Log implements events.Publisher.
var _ events.Publisher = (*Log)(nil)
