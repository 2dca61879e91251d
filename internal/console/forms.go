package console

import (
	"math"
	"strconv"
	"strings"
	"time"

	"fleetflow/internal/api"
)

// MinPasswordLength applies to password resets.
const MinPasswordLength = 8

// fields reads raw form input into wire values, remembering the first
// failure.
type fields struct {
	err *ValidationError
}

func (f *fields) fail(err *ValidationError) {
	if f.err == nil {
		f.err = err
	}
}

func (f *fields) required(field, label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		f.fail(invalid(field, ReasonMissingField, "%s is required.", label))
	}
	return value
}

// secret checks presence but keeps the value as typed.
func (f *fields) secret(field, label, value string) string {
	if strings.TrimSpace(value) == "" {
		f.fail(invalid(field, ReasonMissingField, "%s is required.", label))
	}
	return value
}

func (f *fields) optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func (f *fields) number(field, label, value string) float64 {
	value = f.required(field, label, value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		f.fail(invalid(field, ReasonInvalidNumber, "%s must be a number.", label))
		return 0
	}
	return n
}

func (f *fields) optionalNumber(field, label, value string) *float64 {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	n := f.number(field, label, value)
	return &n
}

func (f *fields) optionalInt(field, label, value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		f.fail(invalid(field, ReasonInvalidNumber, "%s must be a whole number.", label))
		return nil
	}
	return &n
}

func (f *fields) date(field, label, value string) string {
	value = f.required(field, label, value)
	if value == "" {
		return ""
	}
	if _, err := time.Parse(api.DateLayout, value); err != nil {
		f.fail(invalid(field, ReasonInvalidDate, "%s must be a date (YYYY-MM-DD).", label))
	}
	return value
}

func (f *fields) optionalDate(field, label, value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	d := f.date(field, label, value)
	return &d
}

// result returns nil when every field parsed. It avoids handing back a
// typed nil inside the error interface.
func (f *fields) result() error {
	if f.err == nil {
		return nil
	}
	return f.err
}

// VehicleForm is the raw input of the new vehicle modal.
type VehicleForm struct {
	LicensePlate  string
	Name          string
	Make          string
	Model         string
	Year          string
	Type          string
	FuelType      string
	MaxCapacity   string
	Odometer      string
	PurchasePrice string
	CurrentValue  string
}

// Payload builds the create request.
func (v VehicleForm) Payload() (api.CreateVehicleRequest, error) {
	var f fields
	req := api.CreateVehicleRequest{
		LicensePlate:  f.required("license_plate", "License plate", v.LicensePlate),
		Name:          f.required("name", "Name", v.Name),
		Type:          f.required("type", "Vehicle type", v.Type),
		MaxCapacity:   f.number("max_capacity", "Max capacity", v.MaxCapacity),
		Make:          f.optional(v.Make),
		Model:         f.optional(v.Model),
		Year:          f.optionalInt("year", "Year", v.Year),
		FuelType:      f.optional(v.FuelType),
		Odometer:      f.optionalNumber("odometer", "Odometer", v.Odometer),
		PurchasePrice: f.optionalNumber("purchase_price", "Purchase price", v.PurchasePrice),
		CurrentValue:  f.optionalNumber("current_value", "Current value", v.CurrentValue),
	}
	return req, f.result()
}

// DriverForm is the raw input of the new driver modal.
type DriverForm struct {
	Name              string
	LicenseNumber     string
	LicenseCategory   string
	LicenseExpiryDate string
	Status            string
}

// Payload builds the create request.
func (d DriverForm) Payload() (api.CreateDriverRequest, error) {
	var f fields
	req := api.CreateDriverRequest{
		Name:              f.required("name", "Name", d.Name),
		LicenseNumber:     f.required("license_number", "License number", d.LicenseNumber),
		LicenseExpiryDate: f.date("license_expiry_date", "License expiry date", d.LicenseExpiryDate),
		LicenseCategory:   f.optional(d.LicenseCategory),
		Status:            f.optional(d.Status),
	}
	return req, f.result()
}

// MaintenanceForm is the raw input of the new service log modal.
type MaintenanceForm struct {
	VehicleID   string
	ServiceType string
	Description string
	Cost        string
	Date        string
}

// Notice is shown alongside the form. Submitting never waits on it.
func (MaintenanceForm) Notice() string {
	return "Creating a service log moves the vehicle to In Shop until the service is completed."
}

// Payload builds the create request.
func (m MaintenanceForm) Payload() (api.CreateMaintenanceRequest, error) {
	var f fields
	req := api.CreateMaintenanceRequest{
		VehicleID:   f.required("vehicle_id", "Vehicle", m.VehicleID),
		ServiceType: f.required("service_type", "Service type", m.ServiceType),
		Description: f.optional(m.Description),
		Cost:        f.optionalNumber("cost", "Cost", m.Cost),
		Date:        f.optionalDate("date", "Date", m.Date),
	}
	return req, f.result()
}

// ExpenseForm is the raw input of the new expense modal.
type ExpenseForm struct {
	VehicleID   string
	TripID      string
	ExpenseType string
	Cost        string
	Date        string
}

// Payload builds the create request.
func (e ExpenseForm) Payload() (api.CreateExpenseRequest, error) {
	var f fields
	req := api.CreateExpenseRequest{
		VehicleID:   f.required("vehicle_id", "Vehicle", e.VehicleID),
		TripID:      f.optional(e.TripID),
		ExpenseType: f.required("expense_type", "Expense type", e.ExpenseType),
		Cost:        f.number("cost", "Cost", e.Cost),
		Date:        f.date("date", "Date", e.Date),
	}
	return req, f.result()
}

// FuelForm is the raw input of the new fuel log modal.
type FuelForm struct {
	VehicleID       string
	FuelType        string
	QuantityLiters  string
	TotalCost       string
	Date            string
	OdometerReading string
}

// Payload builds the create request.
func (fl FuelForm) Payload() (api.CreateFuelLogRequest, error) {
	var f fields
	req := api.CreateFuelLogRequest{
		VehicleID:       f.required("vehicle_id", "Vehicle", fl.VehicleID),
		FuelType:        f.optional(fl.FuelType),
		QuantityLiters:  f.number("quantity_liters", "Quantity (liters)", fl.QuantityLiters),
		TotalCost:       f.number("total_cost", "Total cost", fl.TotalCost),
		Date:            f.date("date", "Date", fl.Date),
		OdometerReading: f.optionalNumber("odometer_reading", "Odometer reading", fl.OdometerReading),
	}
	return req, f.result()
}

// TripForm is the raw input of the new trip form.
type TripForm struct {
	VehicleID     string
	DriverID      string
	CargoWeight   string
	StartLocation string
	EndLocation   string
}

// Payload builds the create request. Capacity and status checks need the
// board's lookups and happen in Board.CreateTrip.
func (t TripForm) Payload() (api.CreateTripRequest, error) {
	var f fields
	if strings.TrimSpace(t.VehicleID) == "" {
		f.fail(invalid("vehicle_id", ReasonMissingVehicle, "Please select a vehicle."))
	}
	if strings.TrimSpace(t.DriverID) == "" {
		f.fail(invalid("driver_id", ReasonMissingDriver, "Please select a driver."))
	}
	req := api.CreateTripRequest{
		VehicleID:     strings.TrimSpace(t.VehicleID),
		DriverID:      strings.TrimSpace(t.DriverID),
		CargoWeight:   f.number("cargo_weight", "Cargo weight", t.CargoWeight),
		StartLocation: f.optional(t.StartLocation),
		EndLocation:   f.optional(t.EndLocation),
	}
	if f.err == nil && req.CargoWeight <= 0 {
		f.fail(invalid("cargo_weight", ReasonInvalidCargo, "Cargo weight must be greater than zero."))
	}
	return req, f.result()
}

// LoginForm is the raw input of the login page.
type LoginForm struct {
	Email    string
	Password string
}

// Payload builds the login request.
func (l LoginForm) Payload() (api.LoginRequest, error) {
	var f fields
	req := api.LoginRequest{
		Email:    f.required("email", "Email", l.Email),
		Password: f.secret("password", "Password", l.Password),
	}
	return req, f.result()
}

// RegisterForm is the raw input of the registration page.
type RegisterForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
}

// Payload builds the register request.
func (r RegisterForm) Payload() (api.RegisterRequest, error) {
	var f fields
	req := api.RegisterRequest{
		Email:    f.required("email", "Email", r.Email),
		Password: f.secret("password", "Password", r.Password),
		Role:     f.required("role", "Role", r.Role),
	}
	if r.Password != r.ConfirmPassword {
		f.fail(invalid("confirm_password", ReasonPasswordMismatch, "Passwords do not match."))
	}
	return req, f.result()
}

// ForgotPasswordForm is the raw input of the forgot password page.
type ForgotPasswordForm struct {
	Email string
}

// Payload builds the reset code request.
func (r ForgotPasswordForm) Payload() (api.ForgotPasswordRequest, error) {
	var f fields
	req := api.ForgotPasswordRequest{Email: f.required("email", "Email", r.Email)}
	return req, f.result()
}

// ResetPasswordForm is the raw input of the reset password page.
type ResetPasswordForm struct {
	Email           string
	OTP             string
	NewPassword     string
	ConfirmPassword string
}

// Payload builds the reset request.
func (r ResetPasswordForm) Payload() (api.ResetPasswordRequest, error) {
	var f fields
	req := api.ResetPasswordRequest{
		Email:       f.required("email", "Email", r.Email),
		OTP:         f.required("otp", "OTP", r.OTP),
		NewPassword: f.secret("new_password", "New password", r.NewPassword),
	}
	if strings.TrimSpace(r.NewPassword) != "" && len(r.NewPassword) < MinPasswordLength {
		f.fail(invalid("new_password", ReasonPasswordTooShort, "Password must be at least %d characters long.", MinPasswordLength))
	}
	if r.NewPassword != r.ConfirmPassword {
		f.fail(invalid("confirm_password", ReasonPasswordMismatch, "Passwords do not match."))
	}
	return req, f.result()
}
