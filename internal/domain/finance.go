package domain

import "time"

// Expense is an operational cost such as a toll or parking fee.
type Expense struct {
	ID          string
	VehicleID   string
	TripID      string // optional
	ExpenseType string
	Cost        float64
	Date        time.Time
}

// FuelLog records a refuelling.
type FuelLog struct {
	ID              string
	VehicleID       string
	FuelType        FuelType // optional
	QuantityLiters  float64
	TotalCost       float64
	Date            time.Time
	OdometerReading *float64
}
