package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusDraft      TripStatus = "Draft"
	TripStatusDispatched TripStatus = "Dispatched"
	TripStatusCompleted  TripStatus = "Completed"
	TripStatusCancelled  TripStatus = "Cancelled"
)

// TripAction is a lifecycle transition applied to a trip.
type TripAction string

const (
	TripActionDispatch TripAction = "dispatch"
	TripActionComplete TripAction = "complete"
	TripActionCancel   TripAction = "cancel"
)

// tripTransitions is the whole trip state machine.
var tripTransitions = map[TripStatus]map[TripAction]TripStatus{
	TripStatusDraft: {
		TripActionDispatch: TripStatusDispatched,
		TripActionCancel:   TripStatusCancelled,
	},
	TripStatusDispatched: {
		TripActionComplete: TripStatusCompleted,
		TripActionCancel:   TripStatusCancelled,
	},
}

// Next returns the status reached by applying action, and false if the
// action is not allowed from s.
func (s TripStatus) Next(action TripAction) (TripStatus, bool) {
	next, ok := tripTransitions[s][action]
	return next, ok
}

// Terminal reports whether no transition leaves s.
func (s TripStatus) Terminal() bool {
	return len(tripTransitions[s]) == 0
}

// Trip represents a cargo trip assigning a vehicle and a driver.
type Trip struct {
	ID            string
	VehicleID     string
	DriverID      string
	CargoWeight   float64 // tons
	StartLocation string
	EndLocation   string
	Status        TripStatus
	FinalOdometer *float64
	CreatedAt     time.Time
	DispatchedAt  time.Time
	CompletedAt   time.Time
	CancelledAt   time.Time
}

// Can reports whether action may be applied to the trip.
func (t *Trip) Can(action TripAction) bool {
	_, ok := t.Status.Next(action)
	return ok
}
