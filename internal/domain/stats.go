package domain

// DashboardStats holds the KPI card figures.
type DashboardStats struct {
	ActiveFleet            int
	MaintenanceAlerts      int
	UtilizationRatePercent float64
	PendingCargo           int
}

// FleetTotals are the raw aggregates the analytics formulas work from.
type FleetTotals struct {
	Vehicles          int
	CompletedTrips    int
	MaintenanceCost   float64
	FuelCost          float64
	ExpenseCost       float64
	FuelLiters        float64
	CompletedDistance float64 // sum of final odometer readings
}
