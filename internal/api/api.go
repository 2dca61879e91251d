// Package api defines the JSON bodies exchanged between the fleetflow
// server and its clients.
package api

import "time"

const (
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"

	// ReportFilename is the attachment name of the CSV fleet report.
	ReportFilename = "monthly_fleet_report.csv"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse acknowledges an operation that returns no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// Vehicle is a registered fleet asset.
type Vehicle struct {
	ID            string    `json:"id"`
	LicensePlate  string    `json:"license_plate"`
	Name          string    `json:"name"`
	Make          string    `json:"make,omitempty"`
	Model         string    `json:"model,omitempty"`
	Year          int       `json:"year,omitempty"`
	Type          string    `json:"type"`
	FuelType      string    `json:"fuel_type"`
	MaxCapacity   float64   `json:"max_capacity"`
	Odometer      float64   `json:"odometer"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentValue  float64   `json:"current_value"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateVehicleRequest registers a vehicle. Optional fields are omitted
// when nil.
type CreateVehicleRequest struct {
	LicensePlate  string   `json:"license_plate"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	MaxCapacity   float64  `json:"max_capacity"`
	Make          *string  `json:"make,omitempty"`
	Model         *string  `json:"model,omitempty"`
	Year          *int     `json:"year,omitempty"`
	FuelType      *string  `json:"fuel_type,omitempty"`
	Odometer      *float64 `json:"odometer,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	CurrentValue  *float64 `json:"current_value,omitempty"`
}

// Driver is a person who can be assigned to trips.
type Driver struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	LicenseNumber      string  `json:"license_number"`
	LicenseCategory    string  `json:"license_category,omitempty"`
	LicenseExpiryDate  string  `json:"license_expiry_date"`
	PerformanceScore   float64 `json:"performance_score"`
	TripCompletionRate float64 `json:"trip_completion_rate"`
	Status             string  `json:"status"`
}

// CreateDriverRequest registers a driver.
type CreateDriverRequest struct {
	Name              string  `json:"name"`
	LicenseNumber     string  `json:"license_number"`
	LicenseExpiryDate string  `json:"license_expiry_date"`
	LicenseCategory   *string `json:"license_category,omitempty"`
	Status            *string `json:"status,omitempty"`
}

// SyncLicensesResponse reports a license expiry sweep.
type SyncLicensesResponse struct {
	SuspendedCount int    `json:"suspended_count"`
	Message        string `json:"message"`
}

// Trip is a cargo movement assigning one vehicle and one driver.
type Trip struct {
	ID            string     `json:"id"`
	VehicleID     string     `json:"vehicle_id"`
	DriverID      string     `json:"driver_id"`
	CargoWeight   float64    `json:"cargo_weight"`
	StartLocation string     `json:"start_location,omitempty"`
	EndLocation   string     `json:"end_location,omitempty"`
	Status        string     `json:"status"`
	FinalOdometer *float64   `json:"final_odometer,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	DispatchedAt  *time.Time `json:"dispatched_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// CreateTripRequest opens a Draft trip.
type CreateTripRequest struct {
	VehicleID     string  `json:"vehicle_id"`
	DriverID      string  `json:"driver_id"`
	CargoWeight   float64 `json:"cargo_weight"`
	StartLocation *string `json:"start_location,omitempty"`
	EndLocation   *string `json:"end_location,omitempty"`
}

// CompleteTripRequest closes a Dispatched trip.
type CompleteTripRequest struct {
	FinalOdometer *float64 `json:"final_odometer"`
}

// MaintenanceLog is a service visit.
type MaintenanceLog struct {
	ID          string     `json:"id"`
	VehicleID   string     `json:"vehicle_id"`
	ServiceType string     `json:"service_type"`
	Description string     `json:"description,omitempty"`
	Cost        float64    `json:"cost"`
	Date        string     `json:"date"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CreateMaintenanceRequest opens a service log.
type CreateMaintenanceRequest struct {
	VehicleID   string   `json:"vehicle_id"`
	ServiceType string   `json:"service_type"`
	Description *string  `json:"description,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

// Expense is an operational cost.
type Expense struct {
	ID          string  `json:"id"`
	VehicleID   string  `json:"vehicle_id"`
	TripID      string  `json:"trip_id,omitempty"`
	ExpenseType string  `json:"expense_type"`
	Cost        float64 `json:"cost"`
	Date        string  `json:"date"`
}

// CreateExpenseRequest logs an expense.
type CreateExpenseRequest struct {
	VehicleID   string  `json:"vehicle_id"`
	TripID      *string `json:"trip_id,omitempty"`
	ExpenseType string  `json:"expense_type"`
	Cost        float64 `json:"cost"`
	Date        string  `json:"date"`
}

// FuelLog is a refuelling record.
type FuelLog struct {
	ID              string   `json:"id"`
	VehicleID       string   `json:"vehicle_id"`
	FuelType        string   `json:"fuel_type,omitempty"`
	QuantityLiters  float64  `json:"quantity_liters"`
	TotalCost       float64  `json:"total_cost"`
	Date            string   `json:"date"`
	OdometerReading *float64 `json:"odometer_reading,omitempty"`
}

// CreateFuelLogRequest logs a refuelling.
type CreateFuelLogRequest struct {
	VehicleID       string   `json:"vehicle_id"`
	FuelType        *string  `json:"fuel_type,omitempty"`
	QuantityLiters  float64  `json:"quantity_liters"`
	TotalCost       float64  `json:"total_cost"`
	Date            string   `json:"date"`
	OdometerReading *float64 `json:"odometer_reading,omitempty"`
}

// DashboardStats are the KPI cards.
type DashboardStats struct {
	ActiveFleet            int     `json:"active_fleet"`
	MaintenanceAlerts      int     `json:"maintenance_alerts"`
	UtilizationRatePercent float64 `json:"utilization_rate_percent"`
	PendingCargo           int     `json:"pending_cargo"`
}

// ROI is the fleet return on investment.
type ROI struct {
	ROIPercentage float64 `json:"roi_percentage"`
}

// FuelEfficiency is the fleet distance per liter.
type FuelEfficiency struct {
	KmPerLiter float64 `json:"fuel_efficiency_km_per_l"`
}

// RegisterRequest creates a console account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// User is a console account without credentials.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ForgotPasswordRequest asks for a reset code.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest redeems a reset code.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}
